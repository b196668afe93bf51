package mem_test

import (
	"context"
	"testing"

	"bsid.es/despertador"
	"bsid.es/despertador/mem"
)

func TestBusFanOut(t *testing.T) {
	ctx := context.Background()
	bus := mem.NewBus()
	a := bus.Subscribe(4)
	b := bus.Subscribe(4)

	bus.Emit(ctx,
		despertador.StopRingtone{InstanceID: "i"},
		despertador.CancelNotification{InstanceID: "i"},
	)
	for _, sub := range []*mem.BusSubscription{a, b} {
		if got, want := despertador.CommandName(<-sub.C()), "stop_ringtone"; got != want {
			t.Errorf("wrong command\ngot:  %s\nwant: %s", got, want)
		}
		if got, want := despertador.CommandName(<-sub.C()), "cancel_notification"; got != want {
			t.Errorf("wrong command\ngot:  %s\nwant: %s", got, want)
		}
	}

	a.Close()
	a.Close()
	if _, ok := <-a.C(); ok {
		t.Error("expected closed channel")
	}
	bus.Emit(ctx, despertador.WakeDisplay{InstanceID: "i"})
	if got := despertador.CommandName(<-b.C()); got != "wake_display" {
		t.Errorf("wrong command after close\ngot:  %s", got)
	}
}

func TestBusDropsSlowSubscriber(t *testing.T) {
	ctx := context.Background()
	bus := mem.NewBus()
	slow := bus.Subscribe(1)

	bus.Emit(ctx,
		despertador.StopRingtone{InstanceID: "i"},
		despertador.CancelNotification{InstanceID: "i"},
	)

	n := 0
	for range slow.C() {
		n++
	}
	if n != 1 {
		t.Errorf("wrong buffered count\ngot:  %d\nwant: 1", n)
	}
}

func TestCommandRecorder(t *testing.T) {
	var rec mem.CommandRecorder
	sinks := despertador.Sinks{&rec, mem.NewBus()}
	sinks.Emit(context.Background(), despertador.WakeDisplay{InstanceID: "i"})

	cmds := rec.Commands()
	if len(cmds) != 1 || cmds[0].Instance() != "i" {
		t.Errorf("wrong commands\ngot:  %v", cmds)
	}
	rec.Reset()
	if len(rec.Commands()) != 0 {
		t.Error("expected no commands after reset")
	}
}
