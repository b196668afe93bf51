package despertador

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Locker hands out mutual exclusion per key. Unrelated keys never contend.
// Acquisition gives up after Timeout so a stuck holder can't wedge every
// later trigger.
type Locker struct {
	Timeout time.Duration

	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	sem  *semaphore.Weighted
	refs int
}

func NewLocker(timeout time.Duration) *Locker {
	return &Locker{
		Timeout: timeout,
		keys:    make(map[string]*keyLock),
	}
}

// Lock blocks until key is free, ctx is done, or the timeout expires. The
// returned function releases the lock; calling it more than once is safe.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLock{sem: semaphore.NewWeighted(1)}
		l.keys[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	acquireCtx := ctx
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	if err := kl.sem.Acquire(acquireCtx, 1); err != nil {
		l.forget(key, kl)
		return nil, Wrapf(ErrUnavailable, err, "lock %s", key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			kl.sem.Release(1)
			l.forget(key, kl)
		})
	}, nil
}

func (l *Locker) forget(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.keys, key)
	}
}

func instanceKey(id string) string   { return "instance/" + id }
func definitionKey(id string) string { return "definition/" + id }
