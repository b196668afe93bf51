package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bsid.es/despertador"
	"bsid.es/despertador/mem"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	})
}

func runDaemon(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := mem.NewBus()
	a, err := openApp(ctx, bus)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	commands := mem.NewCommandLogger(bus, log)
	if err := commands.Run(ctx); err != nil {
		return err
	}
	defer commands.Interrupt()

	if err := a.sched.Run(ctx); err != nil {
		return err
	}
	defer a.sched.Interrupt()

	sub := a.sched.Subscribe(ctx)
	defer func() { sub.Close() }()

	reconcile := func(reason despertador.Reason) {
		if err := a.coord.Reconcile(ctx, reason); err != nil {
			log.Error().Stack().Err(err).Str("reason", string(reason)).Msg("reconciliation failed")
		}
	}
	reconcile(despertador.ReasonBoot)

	periodic := time.NewTicker(a.cfg.ReconcileInterval)
	defer periodic.Stop()

	clock := newWallClock(time.Now(), time.Minute)
	clockTicker := time.NewTicker(30 * time.Second)
	defer clockTicker.Stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	var wg sync.WaitGroup
	defer wg.Wait()

	wakeUps := make(chan despertador.WakeUp, wakeUpBacklog)
	defer close(wakeUps)
	wg.Add(1)
	go func() {
		defer wg.Done()
		handleWakeUps(wakeUps, func(w despertador.WakeUp) {
			if err := a.coord.OnWakeUp(ctx, w); err != nil {
				log.Error().Stack().Err(err).Str("instance", w.InstanceID).Msg("wake-up failed")
			}
		})
	}()

	log.Info().Str("db", a.cfg.DBPath).Str("tz", a.loc.String()).Msg("running")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return nil

		case w, ok := <-sub.C():
			if !ok {
				log.Warn().Msg("fell behind on wake-ups; resubscribing")
				sub = a.sched.Subscribe(ctx)
				reconcile(despertador.ReasonPeriodic)
				continue
			}
			select {
			case wakeUps <- w:
			case <-ctx.Done():
			}

		case <-periodic.C:
			reconcile(despertador.ReasonPeriodic)

		case <-hup:
			reconcile(despertador.ReasonTimezoneChanged)

		case now := <-clockTicker.C:
			if clock.jumped(now) {
				log.Warn().Time("now", now).Msg("wall clock changed")
				reconcile(despertador.ReasonTimeSet)
			}
		}
	}
}

// wakeUpBacklog bounds the wake-ups waiting for the handler.
const wakeUpBacklog = 64

// handleWakeUps applies wake-ups one at a time in arrival order until in is
// closed.
func handleWakeUps(in <-chan despertador.WakeUp, handle func(despertador.WakeUp)) {
	for w := range in {
		handle(w)
	}
}

// wallClock detects wall clock changes by comparing the wall and monotonic
// readings between two instants. Host suspend shows up as a jump too.
type wallClock struct {
	last      time.Time
	tolerance time.Duration
}

func newWallClock(now time.Time, tolerance time.Duration) *wallClock {
	return &wallClock{last: now, tolerance: tolerance}
}

func (c *wallClock) jumped(now time.Time) bool {
	elapsed := now.Sub(c.last)
	wall := now.Round(0).Sub(c.last.Round(0))
	c.last = now
	return drift(wall, elapsed) > c.tolerance
}

// drift is how far the wall clock moved away from the elapsed time.
func drift(wall, elapsed time.Duration) time.Duration {
	d := wall - elapsed
	if d < 0 {
		d = -d
	}
	return d
}
