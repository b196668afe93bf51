package despertador

import (
	"context"
	"time"
)

//go:generate mockgen -source=scheduler.go -destination=mocks/scheduler.go -package=mocks

// WakeScheduler asks the host to call the process back at a given instant,
// even if the process is not running at that time. Each instance has at
// most one pending request; arming again replaces it.
type WakeScheduler interface {
	Arm(ctx context.Context, instanceID string, at time.Time) error
	Cancel(ctx context.Context, instanceID string) error
}

// WakeUp is delivered when an armed instant is reached. The delivery may
// happen late if the process was asleep; At is the instant that was armed.
type WakeUp struct {
	InstanceID string    `json:"instanceId"`
	At         time.Time `json:"at"`
}

type WakeSubscription interface {
	// C returns the channel wake-ups are delivered on.
	//
	// If the subscriber can't keep up with the wake-ups coming from this
	// channel, the scheduler unsubscribes it and closes its channel; in this
	// case, the subscription holder will need to subscribe again.
	C() <-chan WakeUp

	// Close closes the subscription.
	Close() error
}
