package despertador

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Reason tells why a reconciliation runs.
type Reason string

const (
	ReasonBoot            Reason = "boot"
	ReasonTimeSet         Reason = "time_set"
	ReasonTimezoneChanged Reason = "timezone_changed"
	ReasonPeriodic        Reason = "periodic"
)

// resume reports whether the process may have been unable to run before
// this reconciliation, so that overdue alarms count as missed.
func (r Reason) resume() bool {
	return r != ReasonPeriodic
}

type CoordinatorOptions struct {
	Defaults Defaults

	// LockTimeout bounds how long a trigger waits for an instance or
	// definition lock before it is dropped.
	LockTimeout time.Duration

	// Concurrency bounds how many definitions are reconciled in parallel.
	Concurrency int
}

// Coordinator routes triggers to the state machine, one instance at a time,
// and keeps every enabled definition backed by exactly one active instance.
type Coordinator struct {
	machine  *Machine
	defs     DefinitionStore
	insts    InstanceStore
	locks    *Locker
	defaults Defaults
	workers  int
	log      zerolog.Logger
}

func NewCoordinator(m *Machine, defs DefinitionStore, insts InstanceStore, opts CoordinatorOptions, log zerolog.Logger) *Coordinator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 2 * time.Second
	}
	return &Coordinator{
		machine:  m,
		defs:     defs,
		insts:    insts,
		locks:    NewLocker(opts.LockTimeout),
		defaults: opts.Defaults,
		workers:  opts.Concurrency,
		log:      log.With().Str("component", "coordinator").Logger(),
	}
}

// OnWakeUp handles a wake scheduler callback. A callback arriving later
// than the missed grace is treated as a resume of the process.
func (c *Coordinator) OnWakeUp(ctx context.Context, w WakeUp) error {
	late := c.machine.now().Sub(w.At) > c.machine.policy.MissedGrace
	if late {
		c.log.Warn().
			Str("instance", w.InstanceID).
			Time("armed", w.At).
			Msg("late wake-up")
	}
	tr, err := c.withInstance(ctx, w.InstanceID, func() (*Transition, error) {
		return c.machine.Reconcile(ctx, w.InstanceID, late)
	})
	if IsNotFound(err) {
		c.log.Debug().Str("instance", w.InstanceID).Msg("wake-up for unknown instance")
		return nil
	}
	if err != nil {
		return err
	}
	return c.settle(ctx, tr)
}

func (c *Coordinator) Snooze(ctx context.Context, instanceID string) (*Transition, error) {
	return c.userAction(ctx, instanceID, c.machine.Snooze)
}

func (c *Coordinator) Dismiss(ctx context.Context, instanceID string) (*Transition, error) {
	return c.userAction(ctx, instanceID, c.machine.Dismiss)
}

func (c *Coordinator) Predismiss(ctx context.Context, instanceID string) (*Transition, error) {
	return c.userAction(ctx, instanceID, c.machine.Predismiss)
}

func (c *Coordinator) userAction(ctx context.Context, id string, action func(context.Context, string) (*Transition, error)) (*Transition, error) {
	tr, err := c.withInstance(ctx, id, func() (*Transition, error) {
		return action(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if err := c.settle(ctx, tr); err != nil {
		return tr, err
	}
	return tr, nil
}

// settle replaces an instance that just reached a terminal state.
func (c *Coordinator) settle(ctx context.Context, tr *Transition) error {
	if !tr.Applied || !tr.After.State.Terminal() {
		return nil
	}
	return c.syncDefinition(ctx, tr.After.DefinitionID, nil)
}

// DefinitionChanged saves def and brings its instances in line with it. An
// active instance that the edit invalidates is predismissed and replaced;
// other edits only reach the next instance created.
func (c *Coordinator) DefinitionChanged(ctx context.Context, def *Definition) error {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if err := def.Validate(); err != nil {
		return err
	}
	unlock, err := c.locks.Lock(ctx, definitionKey(def.ID))
	if err != nil {
		return err
	}
	defer unlock()

	if err := c.defs.PutDefinition(ctx, def); err != nil {
		return err
	}
	return c.syncLocked(ctx, def, def.ID, nil)
}

// DefinitionDeleted removes the definition and all its instances.
func (c *Coordinator) DefinitionDeleted(ctx context.Context, id string) error {
	unlock, err := c.locks.Lock(ctx, definitionKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	if err := c.syncLocked(ctx, nil, id, nil); err != nil {
		return err
	}
	return c.defs.DeleteDefinition(ctx, id)
}

// Reconcile re-derives the schedule of every definition. It runs on boot,
// when the wall clock or time zone changes, and periodically as a backstop
// for dropped triggers and failed wake-up requests.
func (c *Coordinator) Reconcile(ctx context.Context, reason Reason) error {
	log := c.log.With().Str("reason", string(reason)).Logger()
	log.Info().Msg("reconciling")

	defs, err := c.defs.ListDefinitions(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.ID] = true
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	g.SetLimit(c.workers)
	for _, def := range defs {
		g.Go(func() error {
			if err := c.syncDefinition(ctx, def.ID, &reason); err != nil {
				log.Error().Stack().Err(err).Str("definition", def.ID).Msg("reconcile definition")
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	// Instances whose definition vanished.
	active, err := c.insts.QueryActive(ctx)
	if err != nil {
		return err
	}
	orphans := make(map[string]bool)
	for _, inst := range active {
		if !known[inst.DefinitionID] {
			orphans[inst.DefinitionID] = true
		}
	}
	for id := range orphans {
		log.Warn().Str("definition", id).Msg("retiring instances of unknown definition")
		if err := c.syncDefinition(ctx, id, &reason); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Coordinator) syncDefinition(ctx context.Context, id string, reason *Reason) error {
	unlock, err := c.locks.Lock(ctx, definitionKey(id))
	if err != nil {
		c.log.Warn().Err(err).Str("definition", id).Msg("dropping trigger")
		return err
	}
	defer unlock()

	def, err := c.defs.GetDefinition(ctx, id)
	if IsNotFound(err) {
		def, err = nil, nil
	}
	if err != nil {
		return err
	}
	return c.syncLocked(ctx, def, id, reason)
}

// syncLocked enforces the single active instance rule for one definition.
// A nil def retires everything. A non-nil reason additionally reconciles the
// surviving instance. The definition lock must be held.
func (c *Coordinator) syncLocked(ctx context.Context, def *Definition, id string, reason *Reason) error {
	log := c.log.With().Str("definition", id).Logger()

	insts, err := c.insts.QueryByDefinition(ctx, id)
	if err != nil {
		return err
	}
	now := c.machine.now()
	loc := c.machine.location()

	if def == nil {
		for _, inst := range insts {
			if err := c.discard(ctx, inst); err != nil {
				return err
			}
		}
		return nil
	}

	var active []*Instance
	for _, inst := range insts {
		if inst.State.Active() {
			active = append(active, inst)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].AlertTime.Before(active[j].AlertTime)
	})
	if len(active) > 1 {
		log.Error().Int("active", len(active)).Str("kept", active[0].ID).Msg("more than one active instance")
		for _, inst := range active[1:] {
			if err := c.discard(ctx, inst); err != nil {
				return err
			}
			insts = without(insts, inst.ID)
		}
		active = active[:1]
	}

	var current *Instance
	if len(active) == 1 {
		current = active[0]
		if !c.valid(def, current, now, loc, insts) {
			log.Info().Str("instance", current.ID).Msg("instance no longer matches definition")
			if err := c.discard(ctx, current); err != nil {
				return err
			}
			insts = without(insts, current.ID)
			current = nil
		}
	}

	if current != nil && reason != nil {
		tr, err := c.withInstance(ctx, current.ID, func() (*Transition, error) {
			return c.machine.Reconcile(ctx, current.ID, reason.resume())
		})
		if err != nil {
			return err
		}
		current = tr.After
		replaceInstance(insts, current)
		if current.State.Terminal() {
			current = nil
		}
	}

	if current == nil && def.Enabled {
		if current, err = c.schedule(ctx, def, insts, now, loc); err != nil {
			return err
		}
	}
	return c.collect(ctx, def, insts, current != nil, now, loc)
}

// valid reports whether inst still represents the next ring of def.
func (c *Coordinator) valid(def *Definition, inst *Instance, now time.Time, loc *time.Location, insts []*Instance) bool {
	if !def.Enabled {
		return false
	}
	// Once rung, the instance is left to its user actions and timeouts.
	if !inst.State.preFire() {
		return true
	}
	if !def.Matches(inst) {
		return false
	}
	// A repeat-day edit may have introduced an earlier day.
	next, ok := NextOccurrence(def, now, loc, insts)
	return !ok || !next.Before(inst.ScheduledAt(loc))
}

// schedule creates the next instance of def, or retires def when it has no
// further occurrence.
func (c *Coordinator) schedule(ctx context.Context, def *Definition, insts []*Instance, now time.Time, loc *time.Location) (*Instance, error) {
	// Never hand out an occurrence that already rang, even if the clock
	// was set back since.
	after := now
	for _, inst := range insts {
		if at := inst.ScheduledAt(loc); inst.State == Dismissed && at.After(after) {
			after = at
		}
	}
	at, ok := NextOccurrence(def, after, loc, insts)
	if !ok {
		return nil, c.exhaust(ctx, def)
	}

	inst := NewInstance(def, at, c.defaults)
	if err := c.insts.Put(ctx, inst); err != nil {
		return nil, err
	}
	c.log.Info().
		Str("definition", def.ID).
		Str("instance", inst.ID).
		Time("alert", inst.AlertTime).
		Msg("instance scheduled")

	tr, err := c.withInstance(ctx, inst.ID, func() (*Transition, error) {
		return c.machine.Advance(ctx, inst.ID)
	})
	if err != nil {
		// The instance is stored; the next reconciliation arms it.
		c.log.Warn().Err(err).Str("instance", inst.ID).Msg("advance new instance")
		return inst, nil
	}
	return tr.After, nil
}

// exhaust handles a one-shot definition that will never ring again.
func (c *Coordinator) exhaust(ctx context.Context, def *Definition) error {
	if !def.OneShot() {
		return nil
	}
	if def.DeleteAfterFire {
		c.log.Info().Str("definition", def.ID).Msg("deleting finished one-shot alarm")
		insts, err := c.insts.QueryByDefinition(ctx, def.ID)
		if err != nil {
			return err
		}
		for _, inst := range insts {
			if err := c.discard(ctx, inst); err != nil {
				return err
			}
		}
		return c.defs.DeleteDefinition(ctx, def.ID)
	}
	c.log.Info().Str("definition", def.ID).Msg("disabling finished one-shot alarm")
	def.Enabled = false
	return c.defs.PutDefinition(ctx, def)
}

// collect deletes terminal instances that are no longer needed: dismissed
// ones once a successor exists or the alarm is one-shot, and predismissed
// ones once their occurrence is in the past.
func (c *Coordinator) collect(ctx context.Context, def *Definition, insts []*Instance, hasActive bool, now time.Time, loc *time.Location) error {
	for _, inst := range insts {
		var drop bool
		switch inst.State {
		case Dismissed:
			drop = hasActive || def.OneShot()
		case Predismissed:
			drop = !inst.ScheduledAt(loc).After(now)
		}
		if !drop {
			continue
		}
		if err := c.insts.Delete(ctx, inst.ID); err != nil && !IsNotFound(err) {
			return err
		}
	}
	return nil
}

// discard predismisses inst if needed and deletes it.
func (c *Coordinator) discard(ctx context.Context, inst *Instance) error {
	if inst.State.Active() {
		_, err := c.withInstance(ctx, inst.ID, func() (*Transition, error) {
			return c.machine.Predismiss(ctx, inst.ID)
		})
		if err != nil && !IsNotFound(err) {
			return err
		}
	}
	if err := c.insts.Delete(ctx, inst.ID); err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

func (c *Coordinator) withInstance(ctx context.Context, id string, fn func() (*Transition, error)) (*Transition, error) {
	unlock, err := c.locks.Lock(ctx, instanceKey(id))
	if err != nil {
		c.log.Warn().Err(err).Str("instance", id).Msg("dropping trigger")
		return nil, err
	}
	defer unlock()
	return fn()
}

func without(insts []*Instance, id string) []*Instance {
	out := insts[:0]
	for _, inst := range insts {
		if inst.ID != id {
			out = append(out, inst)
		}
	}
	return out
}

func replaceInstance(insts []*Instance, inst *Instance) {
	for i := range insts {
		if insts[i].ID == inst.ID {
			insts[i] = inst
			return
		}
	}
}
