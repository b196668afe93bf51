package mem

import (
	"context"
	"sort"
	"sync"

	"bsid.es/despertador"
)

// Store keeps definitions and instances in maps. Records are copied on the
// way in and out so callers never share memory with the store.
type Store struct {
	mu    sync.RWMutex
	defs  map[string]*despertador.Definition
	insts map[string]*despertador.Instance
}

func NewStore() *Store {
	return &Store{
		defs:  make(map[string]*despertador.Definition),
		insts: make(map[string]*despertador.Instance),
	}
}

var (
	_ despertador.InstanceStore   = (*Store)(nil)
	_ despertador.DefinitionStore = (*Store)(nil)
)

func (s *Store) Get(ctx context.Context, id string) (*despertador.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.insts[id]
	if !ok {
		return nil, despertador.Errorf(despertador.ErrNotFound, "instance %s not found", id)
	}
	return inst.Clone(), nil
}

func (s *Store) Put(ctx context.Context, inst *despertador.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insts[inst.ID] = inst.Clone()
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.insts, id)
	return nil
}

func (s *Store) QueryByDefinition(ctx context.Context, definitionID string) ([]*despertador.Instance, error) {
	return s.query(func(inst *despertador.Instance) bool {
		return inst.DefinitionID == definitionID
	}), nil
}

func (s *Store) QueryActive(ctx context.Context) ([]*despertador.Instance, error) {
	return s.query(func(inst *despertador.Instance) bool {
		return inst.State.Active()
	}), nil
}

func (s *Store) query(match func(*despertador.Instance) bool) []*despertador.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*despertador.Instance
	for _, inst := range s.insts {
		if match(inst) {
			out = append(out, inst.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AlertTime.Equal(out[j].AlertTime) {
			return out[i].AlertTime.Before(out[j].AlertTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) GetDefinition(ctx context.Context, id string) (*despertador.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[id]
	if !ok {
		return nil, despertador.Errorf(despertador.ErrNotFound, "definition %s not found", id)
	}
	c := *def
	return &c, nil
}

func (s *Store) PutDefinition(ctx context.Context, def *despertador.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *def
	s.defs[def.ID] = &c
	return nil
}

func (s *Store) DeleteDefinition(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.defs, id)
	return nil
}

func (s *Store) ListDefinitions(ctx context.Context) ([]*despertador.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*despertador.Definition, 0, len(s.defs))
	for _, def := range s.defs {
		c := *def
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}
