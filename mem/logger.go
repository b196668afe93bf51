package mem

import (
	"context"

	"github.com/rs/zerolog"

	"bsid.es/despertador"
)

// CommandLogger writes every command published on a Bus to a logger. It
// stands in for the audio and notification layers when none is attached.
type CommandLogger struct {
	bus *Bus
	log zerolog.Logger

	sub    *BusSubscription
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCommandLogger(bus *Bus, log zerolog.Logger) *CommandLogger {
	return &CommandLogger{
		bus:    bus,
		log:    log.With().Str("component", "commands").Logger(),
		cancel: func() {},
		done:   make(chan struct{}),
	}
}

func (l *CommandLogger) Run(ctx context.Context) error {
	l.sub = l.bus.Subscribe(0)
	ctx, l.cancel = context.WithCancel(ctx)
	go l.run(ctx)
	return nil
}

// Interrupt stops the logger and waits for it to finish.
func (l *CommandLogger) Interrupt() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *CommandLogger) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.sub.Close()
			return

		case cmd, ok := <-l.sub.C():
			if !ok {
				l.log.Warn().Msg("fell behind; resubscribing")
				l.sub = l.bus.Subscribe(0)
				continue
			}
			l.logCommand(cmd)
		}
	}
}

func (l *CommandLogger) logCommand(cmd despertador.Command) {
	ev := l.log.Info().
		Str("command", despertador.CommandName(cmd)).
		Str("instance", cmd.Instance())
	switch c := cmd.(type) {
	case despertador.PlayRingtone:
		ev = ev.Str("uri", c.URI).Dur("crescendo", c.Crescendo).Float64("volume", c.Volume)
	case despertador.Vibrate:
		ev = ev.Str("pattern", c.Pattern)
	case despertador.PostNotification:
		ev = ev.Str("kind", string(c.Kind)).Str("label", c.Label).Time("alert", c.AlertTime)
	case despertador.BroadcastStateChanged:
		ev = ev.Stringer("state", c.State)
	}
	ev.Msg("command")
}
