package mem

import (
	"context"
	"sync"

	"bsid.es/despertador"
)

// Bus is a despertador.CommandSink that hands commands to subscribers.
// Publishing never blocks; a subscriber that falls behind is dropped.
type Bus struct {
	mu   sync.Mutex
	subs map[*BusSubscription]struct{}
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[*BusSubscription]struct{}),
	}
}

var _ despertador.CommandSink = (*Bus)(nil)

func (b *Bus) Emit(ctx context.Context, cmds ...despertador.Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, cmd := range cmds {
		for sub := range b.subs {
			select {
			case sub.c <- cmd:
			default:
				sub.close()
			}
		}
	}
}

// Subscribe returns a subscription buffering up to size commands.
func (b *Bus) Subscribe(size int) *BusSubscription {
	if size <= 0 {
		size = subBufferSize
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &BusSubscription{
		bus: b,
		c:   make(chan despertador.Command, size),
	}
	b.subs[sub] = struct{}{}
	return sub
}

type BusSubscription struct {
	bus  *Bus
	c    chan despertador.Command
	once sync.Once
}

// C returns the channel commands are delivered on. It is closed when the
// subscription is closed or dropped.
func (sub *BusSubscription) C() <-chan despertador.Command {
	return sub.c
}

func (sub *BusSubscription) Close() error {
	sub.bus.mu.Lock()
	defer sub.bus.mu.Unlock()
	sub.close()
	return nil
}

func (sub *BusSubscription) close() {
	sub.once.Do(func() {
		close(sub.c)
	})
	delete(sub.bus.subs, sub)
}
