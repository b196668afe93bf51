package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bsid.es/despertador"
	"bsid.es/despertador/config"
	"bsid.es/despertador/logging"
	"bsid.es/despertador/mem"
	"bsid.es/despertador/sqlite"
)

var (
	dbFlag       string
	logLevelFlag string
	tzFlag       string
	rootCmd      = &cobra.Command{
		Use:          "despertador",
		Short:        "Alarm clock scheduler",
		SilenceUsage: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path (overrides DESPERTADOR_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (overrides DESPERTADOR_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&tzFlag, "tz", "", "IANA time zone alarms are evaluated in (defaults to local)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	loc     *time.Location
	store   *sqlite.Store
	sched   *mem.WakeScheduler
	machine *despertador.Machine
	coord   *despertador.Coordinator
}

// openApp wires the stores, scheduler, state machine and coordinator.
// Commands produced by transitions go to sink.
func openApp(ctx context.Context, sink despertador.CommandSink) (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	log := logging.New("despertador", cfg.LogLevel)

	loc := time.Local
	if tzFlag != "" {
		if loc, err = time.LoadLocation(tzFlag); err != nil {
			return nil, errors.Wrap(err, "load time zone")
		}
	}

	store, err := sqlite.Open(ctx, cfg.DBPath, cfg.DBPoolSize)
	if err != nil {
		return nil, err
	}

	sched := mem.NewWakeScheduler()
	m := despertador.NewMachine(store, sched, sink, cfg.Policy(), log)
	m.Location = func() *time.Location { return loc }

	return &app{
		cfg:     cfg,
		log:     log,
		loc:     loc,
		store:   store,
		sched:   sched,
		machine: m,
		coord:   despertador.NewCoordinator(m, store, store, cfg.CoordinatorOptions(), log),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp runs fn against a freshly opened app and prints the commands the
// operation emitted.
func withApp(cmd *cobra.Command, fn func(context.Context, *app) error) error {
	ctx := cmd.Context()
	var rec mem.CommandRecorder
	a, err := openApp(ctx, &rec)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		return err
	}
	for _, c := range rec.Commands() {
		fmt.Fprintf(cmd.OutOrStdout(), "-> %s %s\n", despertador.CommandName(c), c.Instance())
	}
	return nil
}
