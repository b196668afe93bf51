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

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "instances",
		Short: "List pending alarm occurrences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				insts, err := a.store.QueryActive(ctx)
				if err != nil {
					return err
				}
				return printInstances(cmd.OutOrStdout(), insts, a.loc)
			})
		},
	})

	actions := []struct {
		use, short string
		fn         func(*despertador.Coordinator) func(context.Context, string) (*despertador.Transition, error)
	}{
		{"snooze", "Snooze a ringing alarm", func(c *despertador.Coordinator) func(context.Context, string) (*despertador.Transition, error) {
			return c.Snooze
		}},
		{"dismiss", "Dismiss an alarm occurrence", func(c *despertador.Coordinator) func(context.Context, string) (*despertador.Transition, error) {
			return c.Dismiss
		}},
		{"predismiss", "Skip an upcoming alarm occurrence", func(c *despertador.Coordinator) func(context.Context, string) (*despertador.Transition, error) {
			return c.Predismiss
		}},
	}
	for _, action := range actions {
		rootCmd.AddCommand(&cobra.Command{
			Use:   action.use + " INSTANCE_ID",
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					tr, err := action.fn(a.coord)(ctx, args[0])
					if err != nil {
						return err
					}
					if !tr.Applied {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing to do in state %s\n", args[0], tr.After.State)
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", args[0], tr.Before.State, tr.After.State)
					return nil
				})
			},
		})
	}

	var reason string
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-derive the schedule of every alarm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseReason(reason)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.coord.Reconcile(ctx, r)
			})
		},
	}
	reconcileCmd.Flags().StringVarP(&reason, "reason", "r", string(despertador.ReasonPeriodic),
		"One of boot, time_set, timezone_changed, periodic")
	rootCmd.AddCommand(reconcileCmd)
}

func parseReason(s string) (despertador.Reason, error) {
	switch r := despertador.Reason(s); r {
	case despertador.ReasonBoot, despertador.ReasonTimeSet, despertador.ReasonTimezoneChanged, despertador.ReasonPeriodic:
		return r, nil
	}
	return "", errors.Errorf("unknown reason %q", s)
}

func printInstances(w io.Writer, insts []*despertador.Instance, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tALARM\tSTATE\tALERT\tSNOOZES\tLABEL")
	for _, inst := range insts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			inst.ID, inst.DefinitionID, inst.State,
			inst.AlertTime.In(loc).Format("Mon 2006-01-02 15:04"),
			inst.SnoozeCount, inst.Label)
	}
	return tw.Flush()
}
