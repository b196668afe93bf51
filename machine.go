package despertador

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// Policy holds the timing constants of the state machine.
type Policy struct {
	// LowNotificationLead is how long before the alert the low priority
	// notification is posted.
	LowNotificationLead time.Duration

	// HighNotificationLead is how long before the alert the high priority
	// notification is posted.
	HighNotificationLead time.Duration

	// MissedGrace is how late an alarm may still ring after the process
	// resumes. Beyond it the occurrence is reported as missed.
	MissedGrace time.Duration

	// MissedRepeatInterval separates reposts of the missed notification.
	MissedRepeatInterval time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		LowNotificationLead:  2 * time.Hour,
		HighNotificationLead: 30 * time.Minute,
		MissedGrace:          5 * time.Minute,
		MissedRepeatInterval: 10 * time.Minute,
	}
}

type trigger int

const (
	triggerTimer trigger = iota
	triggerResume
	triggerSnooze
	triggerDismiss
	triggerPredismiss
)

func (t trigger) String() string {
	switch t {
	case triggerTimer:
		return "timer"
	case triggerResume:
		return "resume"
	case triggerSnooze:
		return "snooze"
	case triggerDismiss:
		return "dismiss"
	case triggerPredismiss:
		return "predismiss"
	}
	return "unknown"
}

// Transition is the outcome of applying a trigger to an instance.
type Transition struct {
	Before   *Instance
	After    *Instance
	Commands []Command

	// Applied is false when the trigger did not change the instance, e.g. a
	// duplicate wake-up or a snooze arriving after a dismiss.
	Applied bool
}

// Machine applies transitions to single instances. Callers must serialize
// calls for the same instance.
type Machine struct {
	Now      func() time.Time
	Location func() *time.Location

	policy Policy
	store  InstanceStore
	sched  WakeScheduler
	sink   CommandSink
	log    zerolog.Logger
}

func NewMachine(store InstanceStore, sched WakeScheduler, sink CommandSink, policy Policy, log zerolog.Logger) *Machine {
	return &Machine{
		Now:      time.Now,
		Location: func() *time.Location { return time.Local },
		policy:   policy,
		store:    store,
		sched:    sched,
		sink:     sink,
		log:      log.With().Str("component", "machine").Logger(),
	}
}

func (m *Machine) Policy() Policy {
	return m.policy
}

func (m *Machine) now() time.Time {
	return m.Now()
}

func (m *Machine) location() *time.Location {
	if m.Location == nil {
		return time.Local
	}
	if loc := m.Location(); loc != nil {
		return loc
	}
	return time.Local
}

// Advance moves the instance along the time-driven path: notifications,
// firing, auto-silence, snooze expiry and missed reposts.
func (m *Machine) Advance(ctx context.Context, id string) (*Transition, error) {
	return m.apply(ctx, id, triggerTimer)
}

// Reconcile is Advance for the resume path. When resume is set and the
// alert time passed more than MissedGrace ago, the instance becomes Missed
// instead of ringing late.
func (m *Machine) Reconcile(ctx context.Context, id string, resume bool) (*Transition, error) {
	if !resume {
		return m.apply(ctx, id, triggerTimer)
	}
	return m.apply(ctx, id, triggerResume)
}

func (m *Machine) Snooze(ctx context.Context, id string) (*Transition, error) {
	return m.apply(ctx, id, triggerSnooze)
}

// Dismiss ends a ringing, snoozed or missed instance. An instance that has
// not rung yet is predismissed instead.
func (m *Machine) Dismiss(ctx context.Context, id string) (*Transition, error) {
	return m.apply(ctx, id, triggerDismiss)
}

// Predismiss cancels the occurrence without it ever ringing (again).
func (m *Machine) Predismiss(ctx context.Context, id string) (*Transition, error) {
	return m.apply(ctx, id, triggerPredismiss)
}

func (m *Machine) apply(ctx context.Context, id string, trig trigger) (*Transition, error) {
	before, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := m.now()

	after, reposted := m.compute(before, trig, now)
	if reflect.DeepEqual(before, after) {
		m.log.Debug().
			Str("instance", id).
			Stringer("trigger", trig).
			Stringer("state", before.State).
			Msg("trigger ignored")
		m.rearm(ctx, before)
		return &Transition{Before: before, After: before}, nil
	}

	after.UpdatedAt = now
	if err := m.store.Put(ctx, after); err != nil {
		return nil, Wrapf(ErrorCode(err), err, "persist instance %s", id)
	}
	m.rearm(ctx, after)

	cmds := commandsFor(before.State, after, reposted)
	if len(cmds) > 0 {
		m.sink.Emit(ctx, cmds...)
	}

	m.log.Info().
		Str("instance", id).
		Str("definition", after.DefinitionID).
		Stringer("trigger", trig).
		Stringer("from", before.State).
		Stringer("to", after.State).
		Time("alert", after.AlertTime).
		Int("commands", len(cmds)).
		Msg("transition applied")

	return &Transition{Before: before, After: after, Commands: cmds, Applied: true}, nil
}

// compute returns the instance resulting from trig at now. It never
// mutates before.
func (m *Machine) compute(before *Instance, trig trigger, now time.Time) (*Instance, bool) {
	if before.State.Terminal() {
		return before, false
	}

	inst := before.Clone()

	// The wall clock is authoritative until the first ring: follow time
	// zone and DST changes.
	if inst.State.preFire() {
		if at := inst.ScheduledAt(m.location()); !at.Equal(inst.AlertTime) {
			inst.AlertTime = at
		}
	}

	switch trig {
	case triggerSnooze:
		if inst.State != Fired {
			return before, false
		}
		next := now.Add(inst.Snooze)
		if !next.After(inst.AlertTime) {
			next = inst.AlertTime.Add(inst.Snooze)
		}
		inst.State = Snoozed
		inst.AlertTime = next
		inst.SnoozeCount++

	case triggerDismiss:
		switch inst.State {
		case Fired, Snoozed, Missed:
			inst.State = Dismissed
		case Silent, LowNotification, HighNotification:
			inst.State = Predismissed
		}

	case triggerPredismiss:
		inst.State = Predismissed

	case triggerResume:
		if inst.State != Missed && now.Sub(inst.AlertTime) > m.policy.MissedGrace {
			inst.State = Missed
			inst.MissedAt = now
			inst.MissedNotifications = 1
			return inst, false
		}
		return inst, m.advance(inst, now)

	case triggerTimer:
		return inst, m.advance(inst, now)
	}
	return inst, false
}

// advance applies every time-driven transition due at now. It stops at
// Fired so that a ringing alarm is never silenced by the same trigger that
// started it. It reports whether a missed notification is due again.
func (m *Machine) advance(inst *Instance, now time.Time) (reposted bool) {
	for {
		switch inst.State {
		case Silent:
			if now.Before(inst.AlertTime.Add(-m.policy.LowNotificationLead)) {
				return
			}
			inst.State = LowNotification

		case LowNotification:
			if now.Before(inst.AlertTime.Add(-m.policy.HighNotificationLead)) {
				return
			}
			inst.State = HighNotification

		case HighNotification, Snoozed:
			if !now.Before(inst.AlertTime) {
				inst.State = Fired
			}
			return

		case Fired:
			if inst.AutoSilence > 0 && !now.Before(inst.AlertTime.Add(inst.AutoSilence)) {
				inst.State = Dismissed
			}
			return

		case Missed:
			for inst.State == Missed && !now.Before(m.missedBoundary(inst)) {
				if inst.MissedNotifications-1 < inst.MissedRepeatLimit {
					inst.MissedNotifications++
					reposted = true
				} else {
					inst.State = Dismissed
				}
			}
			return

		case Dismissed, Predismissed:
			return

		default:
			panic(fmt.Sprintf("despertador: unhandled state %v", inst.State))
		}
	}
}

func (m *Machine) missedBoundary(inst *Instance) time.Time {
	return inst.MissedAt.Add(time.Duration(inst.MissedNotifications) * m.policy.MissedRepeatInterval)
}

// NextBoundary returns the instant of the next time-driven transition of
// inst, or false when none is pending.
func (m *Machine) NextBoundary(inst *Instance) (time.Time, bool) {
	switch inst.State {
	case Silent:
		return inst.AlertTime.Add(-m.policy.LowNotificationLead), true
	case LowNotification:
		return inst.AlertTime.Add(-m.policy.HighNotificationLead), true
	case HighNotification, Snoozed:
		return inst.AlertTime, true
	case Fired:
		if inst.AutoSilence > 0 {
			return inst.AlertTime.Add(inst.AutoSilence), true
		}
		return time.Time{}, false
	case Missed:
		return m.missedBoundary(inst), true
	case Dismissed, Predismissed:
		return time.Time{}, false
	}
	return time.Time{}, false
}

// rearm points the wake scheduler at the next boundary of inst. Failures
// are only logged: periodic reconciliation arms the instance again.
func (m *Machine) rearm(ctx context.Context, inst *Instance) {
	at, ok := m.NextBoundary(inst)
	if !ok {
		if err := m.sched.Cancel(ctx, inst.ID); err != nil {
			m.log.Warn().Err(err).Str("instance", inst.ID).Msg("cancel wake-up")
		}
		return
	}
	if err := m.sched.Arm(ctx, inst.ID, at); err != nil {
		m.log.Warn().Err(err).
			Str("instance", inst.ID).
			Time("at", at).
			Msg("arm wake-up failed; waiting for periodic reconciliation")
	}
}

func commandsFor(from AlarmState, inst *Instance, reposted bool) []Command {
	id := inst.ID
	if inst.State == from {
		if reposted {
			return []Command{inst.notification(NotificationMissed)}
		}
		return nil
	}

	var cmds []Command
	stop := func() {
		if from == Fired {
			cmds = append(cmds, StopRingtone{InstanceID: id})
		}
	}

	switch inst.State {
	case LowNotification:
		cmds = append(cmds, inst.notification(NotificationLow))
	case HighNotification:
		cmds = append(cmds, inst.notification(NotificationHigh))
	case Fired:
		cmds = append(cmds, PlayRingtone{
			InstanceID: id,
			URI:        inst.Ringtone,
			Crescendo:  inst.Crescendo,
			Volume:     inst.Volume,
		})
		if inst.Vibration != "" && inst.Vibration != "none" {
			cmds = append(cmds, Vibrate{InstanceID: id, Pattern: inst.Vibration})
		}
		cmds = append(cmds, WakeDisplay{InstanceID: id}, inst.notification(NotificationFired))
	case Snoozed:
		stop()
		cmds = append(cmds, inst.notification(NotificationSnoozed))
	case Missed:
		stop()
		cmds = append(cmds, inst.notification(NotificationMissed))
	case Dismissed:
		stop()
		cmds = append(cmds, CancelNotification{InstanceID: id})
	case Predismissed:
		stop()
		if from != Silent {
			cmds = append(cmds, CancelNotification{InstanceID: id})
		}
	}
	return append(cmds, BroadcastStateChanged{InstanceID: id, State: inst.State})
}

func (inst *Instance) notification(kind NotificationKind) PostNotification {
	return PostNotification{
		InstanceID: inst.ID,
		Kind:       kind,
		Label:      inst.Label,
		AlertTime:  inst.AlertTime,
	}
}
