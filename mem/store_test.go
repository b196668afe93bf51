package mem_test

import (
	"context"
	"testing"
	"time"

	"bsid.es/despertador"
	"bsid.es/despertador/mem"
)

func TestStoreCopiesRecords(t *testing.T) {
	ctx := context.Background()
	s := mem.NewStore()

	def := &despertador.Definition{ID: "d", Hour: 7, Days: despertador.Everyday}
	inst := despertador.NewInstance(def, time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC), despertador.DefaultDefaults())
	if err := s.Put(ctx, inst); err != nil {
		t.Fatal(err)
	}
	inst.State = despertador.Fired

	got, err := s.Get(ctx, inst.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != despertador.Silent {
		t.Errorf("store shares memory with caller\ngot:  %v\nwant: %v", got.State, despertador.Silent)
	}
	got.Label = "changed"
	again, _ := s.Get(ctx, inst.ID)
	if again.Label != "" {
		t.Errorf("store returned shared record")
	}
}

func TestStoreQueries(t *testing.T) {
	ctx := context.Background()
	s := mem.NewStore()
	base := time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC)

	a := &despertador.Definition{ID: "a", Hour: 7, Days: despertador.Everyday}
	b := &despertador.Definition{ID: "b", Hour: 7, Days: despertador.Everyday}
	for _, def := range []*despertador.Definition{b, a} {
		if err := s.PutDefinition(ctx, def); err != nil {
			t.Fatal(err)
		}
	}

	late := despertador.NewInstance(a, base.AddDate(0, 0, 1), despertador.DefaultDefaults())
	early := despertador.NewInstance(b, base, despertador.DefaultDefaults())
	done := despertador.NewInstance(a, base.AddDate(0, 0, -1), despertador.DefaultDefaults())
	done.State = despertador.Dismissed
	for _, inst := range []*despertador.Instance{late, early, done} {
		if err := s.Put(ctx, inst); err != nil {
			t.Fatal(err)
		}
	}

	active, _ := s.QueryActive(ctx)
	if len(active) != 2 || active[0].ID != early.ID || active[1].ID != late.ID {
		t.Errorf("wrong active instances\ngot:  %+v", active)
	}
	byDef, _ := s.QueryByDefinition(ctx, "a")
	if len(byDef) != 2 || byDef[0].ID != done.ID {
		t.Errorf("wrong instances of a\ngot:  %+v", byDef)
	}

	defs, _ := s.ListDefinitions(ctx)
	if len(defs) != 2 || defs[0].ID != "a" {
		t.Errorf("wrong definitions\ngot:  %+v", defs)
	}

	if err := s.Delete(ctx, late.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, late.ID); err != nil {
		t.Errorf("delete is not idempotent: %v", err)
	}
	if _, err := s.Get(ctx, late.ID); !despertador.IsNotFound(err) {
		t.Errorf("wrong error code\ngot:  %s\nwant: %s", despertador.ErrorCode(err), despertador.ErrNotFound)
	}
	if err := s.DeleteDefinition(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetDefinition(ctx, "a"); !despertador.IsNotFound(err) {
		t.Errorf("wrong error code\ngot:  %s\nwant: %s", despertador.ErrorCode(err), despertador.ErrNotFound)
	}
}
