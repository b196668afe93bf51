package mem_test

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bsid.es/despertador"
	"bsid.es/despertador/mem"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCommandLogger(t *testing.T) {
	ctx := context.Background()
	var out syncBuffer
	bus := mem.NewBus()
	l := mem.NewCommandLogger(bus, zerolog.New(&out))
	if err := l.Run(ctx); err != nil {
		t.Fatal(err)
	}

	bus.Emit(ctx, despertador.BroadcastStateChanged{InstanceID: "i", State: despertador.Fired})

	deadline := time.Now().Add(2 * time.Second)
	for out.String() == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := l.Interrupt(); err != nil {
		t.Fatal(err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(out.String())), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", out.String(), err)
	}
	want := map[string]any{
		"level":     "info",
		"component": "commands",
		"command":   "broadcast_state_changed",
		"instance":  "i",
		"state":     "FIRED",
		"message":   "command",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("wrong %s\ngot:  %v\nwant: %v", k, entry[k], v)
		}
	}
}
