package mem

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"bsid.es/despertador"
)

// WakeScheduler is an in-process despertador.WakeScheduler. A single timer
// is kept armed for the earliest pending instant of all armed instances.
// Requests don't survive the process; boot reconciliation arms them again.
type WakeScheduler struct {
	Now func() time.Time

	changed chan struct{}

	mu   sync.Mutex
	q    schedQueue
	byID map[string]*schedQueueEntry
	subs map[*WakeSubscription]struct{}

	cancel context.CancelFunc
}

func NewWakeScheduler() *WakeScheduler {
	return &WakeScheduler{
		Now:     time.Now,
		changed: make(chan struct{}, 1),
		byID:    make(map[string]*schedQueueEntry),
		subs:    make(map[*WakeSubscription]struct{}),
		cancel:  func() {},
	}
}

var _ despertador.WakeScheduler = (*WakeScheduler)(nil)

func (s *WakeScheduler) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
	return nil
}

func (s *WakeScheduler) Interrupt() error {
	s.cancel()
	return nil
}

func (s *WakeScheduler) Arm(ctx context.Context, instanceID string, at time.Time) error {
	s.mu.Lock()
	if e, ok := s.byID[instanceID]; ok {
		e.at = at
		heap.Fix(&s.q, e.index)
	} else {
		e := &schedQueueEntry{at: at, instanceID: instanceID}
		heap.Push(&s.q, e)
		s.byID[instanceID] = e
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *WakeScheduler) Cancel(ctx context.Context, instanceID string) error {
	s.mu.Lock()
	e, ok := s.byID[instanceID]
	if ok {
		heap.Remove(&s.q, e.index)
		delete(s.byID, instanceID)
	}
	s.mu.Unlock()
	if ok {
		s.notify()
	}
	return nil
}

// Next returns the earliest armed request, i.e. the instant the single
// wake-up slot is currently set to.
func (s *WakeScheduler) Next() (despertador.WakeUp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.q) == 0 {
		return despertador.WakeUp{}, false
	}
	return despertador.WakeUp{InstanceID: s.q[0].instanceID, At: s.q[0].at}, true
}

// Armed returns the instant armed for instanceID.
func (s *WakeScheduler) Armed(instanceID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[instanceID]
	if !ok {
		return time.Time{}, false
	}
	return e.at, true
}

func (s *WakeScheduler) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

const subBufferSize = 16

func (s *WakeScheduler) Subscribe(ctx context.Context) despertador.WakeSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &WakeSubscription{
		sched: s,
		c:     make(chan despertador.WakeUp, subBufferSize),
	}
	s.subs[sub] = struct{}{}
	return sub
}

func (s *WakeScheduler) run(ctx context.Context) {
	timer := time.NewTimer(1<<63 - 1)
	timer.Stop()

	for {
		if next, ok := s.Next(); ok {
			d := next.At.Sub(s.Now())
			if d < 0 {
				d = 0
			}
			timer.Reset(d)
		}

		select {
		case <-ctx.Done(): // Operation was canceled.
			timer.Stop()
			return

		case <-s.changed:
			// Schedule changed. Recompute the earliest instant.

		case <-timer.C:
			s.fireDue()
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

// fireDue publishes and drops every request whose instant has come. On time
// drift the timer is simply armed again by the loop.
func (s *WakeScheduler) fireDue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	for len(s.q) > 0 && !s.q[0].at.After(now) {
		e := heap.Pop(&s.q).(*schedQueueEntry)
		delete(s.byID, e.instanceID)
		s.publish(despertador.WakeUp{InstanceID: e.instanceID, At: e.at})
	}
}

// publish must be called with s.mu held.
func (s *WakeScheduler) publish(w despertador.WakeUp) {
	for sub := range s.subs {
		select {
		case sub.c <- w:
		default:
			// Slow subscribers are dropped rather than stalling every other
			// one; they resubscribe and reconciliation catches up.
			sub.close()
		}
	}
}

type schedQueueEntry struct {
	at         time.Time
	instanceID string
	index      int
}

type schedQueue []*schedQueueEntry

var _ heap.Interface = (*schedQueue)(nil)

func (q schedQueue) Len() int {
	return len(q)
}

func (q schedQueue) Less(i, j int) bool {
	ti, tj := q[i].at, q[j].at
	return ti.Before(tj)
}

func (q schedQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *schedQueue) Push(x any) {
	e := x.(*schedQueueEntry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *schedQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*q = old[:n-1]
	return it
}

var _ despertador.WakeSubscription = (*WakeSubscription)(nil)

type WakeSubscription struct {
	sched *WakeScheduler
	c     chan despertador.WakeUp
	once  sync.Once
}

func (sub *WakeSubscription) C() <-chan despertador.WakeUp {
	return sub.c
}

func (sub *WakeSubscription) Close() error {
	sub.sched.mu.Lock()
	defer sub.sched.mu.Unlock()
	sub.close()
	return nil
}

func (sub *WakeSubscription) close() {
	sub.once.Do(func() {
		close(sub.c)
	})
	delete(sub.sched.subs, sub)
}
