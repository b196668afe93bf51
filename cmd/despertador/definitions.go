package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bsid.es/despertador"
)

type definitionFlags struct {
	clock             string
	days              string
	date              string
	label             string
	ringtone          string
	enabled           bool
	deleteAfterFire   bool
	snooze            time.Duration
	crescendo         time.Duration
	volume            float64
	vibration         string
	missedRepeatLimit int
	autoSilence       time.Duration
}

func (f *definitionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.clock, "time", "t", "", "Time of day, HH:MM")
	flags.StringVarP(&f.days, "days", "d", "", `Repeat days, e.g. "mon,wed,fri", "weekdays" or "daily"`)
	flags.StringVar(&f.date, "date", "", "Date of a one-shot alarm, YYYY-MM-DD")
	flags.StringVarP(&f.label, "label", "l", "", "Label")
	flags.StringVar(&f.ringtone, "ringtone", "", "Ringtone URI")
	flags.BoolVar(&f.enabled, "enabled", true, "Whether the alarm rings")
	flags.BoolVar(&f.deleteAfterFire, "delete-after-fire", false, "Delete a one-shot alarm once it rang")
	flags.DurationVar(&f.snooze, "snooze", 0, "Snooze length")
	flags.DurationVar(&f.crescendo, "crescendo", 0, "Volume ramp-up duration")
	flags.Float64Var(&f.volume, "volume", 0, "Volume within [0, 1]")
	flags.StringVar(&f.vibration, "vibration", "", `Vibration pattern, "none" to disable`)
	flags.IntVar(&f.missedRepeatLimit, "missed-repeat-limit", 0, "How many times a missed notification is reposted")
	flags.DurationVar(&f.autoSilence, "auto-silence", 0, "Ringing time before the alarm dismisses itself, 0 for never")
}

// apply copies the flags set on cmd into def. One-shot alarms without a
// date ring at the next occurrence of their time of day.
func (f *definitionFlags) apply(cmd *cobra.Command, def *despertador.Definition, now time.Time, loc *time.Location) error {
	flags := cmd.Flags()
	if flags.Changed("days") && flags.Changed("date") {
		return errors.New("--days and --date are mutually exclusive")
	}

	if flags.Changed("time") {
		t, err := time.Parse("15:04", f.clock)
		if err != nil {
			return errors.Errorf("invalid --time %q: want HH:MM", f.clock)
		}
		def.Hour, def.Minute = t.Hour(), t.Minute()
	}
	if flags.Changed("days") {
		days, err := despertador.ParseWeekdays(f.days)
		if err != nil {
			return err
		}
		def.Days = days
	}
	switch {
	case flags.Changed("date"):
		t, err := time.ParseInLocation("2006-01-02", f.date, loc)
		if err != nil {
			return errors.Errorf("invalid --date %q: want YYYY-MM-DD", f.date)
		}
		def.Days = 0
		def.Year, def.Month, def.Day = t.Date()
	case def.OneShot() && (def.Year == 0 || flags.Changed("time")):
		def.Year, def.Month, def.Day = despertador.NextDate(def.Hour, def.Minute, now, loc)
	}
	if !def.OneShot() {
		def.Year, def.Month, def.Day = 0, 0, 0
	}

	if flags.Changed("label") {
		def.Label = f.label
	}
	if flags.Changed("ringtone") {
		def.Ringtone = f.ringtone
	}
	if flags.Changed("enabled") {
		def.Enabled = f.enabled
	}
	if flags.Changed("delete-after-fire") {
		def.DeleteAfterFire = f.deleteAfterFire
	}

	o := &def.Overrides
	if flags.Changed("snooze") {
		o.Snooze = ptr(f.snooze)
	}
	if flags.Changed("crescendo") {
		o.Crescendo = ptr(f.crescendo)
	}
	if flags.Changed("volume") {
		o.Volume = ptr(f.volume)
	}
	if flags.Changed("vibration") {
		o.Vibration = ptr(f.vibration)
	}
	if flags.Changed("missed-repeat-limit") {
		o.MissedRepeatLimit = ptr(f.missedRepeatLimit)
	}
	if flags.Changed("auto-silence") {
		o.AutoSilence = ptr(f.autoSilence)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func init() {
	// add
	var addFlags definitionFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an alarm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				def := &despertador.Definition{Enabled: true}
				if err := addFlags.apply(cmd, def, a.machine.Now(), a.loc); err != nil {
					return err
				}
				if err := a.coord.DefinitionChanged(ctx, def); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), def.ID)
				return nil
			})
		},
	}
	addFlags.register(addCmd)
	_ = addCmd.MarkFlagRequired("time")
	rootCmd.AddCommand(addCmd)

	// edit
	var editFlags definitionFlags
	editCmd := &cobra.Command{
		Use:   "edit ALARM_ID",
		Short: "Change an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				def, err := a.store.GetDefinition(ctx, args[0])
				if err != nil {
					return err
				}
				if err := editFlags.apply(cmd, def, a.machine.Now(), a.loc); err != nil {
					return err
				}
				return a.coord.DefinitionChanged(ctx, def)
			})
		},
	}
	editFlags.register(editCmd)
	rootCmd.AddCommand(editCmd)

	// rm
	rootCmd.AddCommand(&cobra.Command{
		Use:   "rm ALARM_ID",
		Short: "Delete an alarm and its pending occurrences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.store.GetDefinition(ctx, args[0]); err != nil {
					return err
				}
				return a.coord.DefinitionDeleted(ctx, args[0])
			})
		},
	})

	// list
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List alarms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				defs, err := a.store.ListDefinitions(ctx)
				if err != nil {
					return err
				}
				return printDefinitions(cmd.OutOrStdout(), defs)
			})
		},
	})
}

func printDefinitions(w io.Writer, defs []*despertador.Definition) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENABLED\tTIME\tREPEAT\tLABEL")
	for _, def := range defs {
		repeat := def.Days.String()
		if def.OneShot() {
			repeat = fmt.Sprintf("%04d-%02d-%02d", def.Year, def.Month, def.Day)
		}
		fmt.Fprintf(tw, "%s\t%t\t%02d:%02d\t%s\t%s\n", def.ID, def.Enabled, def.Hour, def.Minute, repeat, def.Label)
	}
	return tw.Flush()
}
