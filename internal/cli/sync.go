package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload all queued submissions now",
		Long: `Attempt to upload every locally queued submission to the remote API.

Each queued record is uploaded independently; a record is removed from
the queue only after the server confirms it. Failed records stay queued
untouched for the next attempt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, rootOpts)
		},
	}
	return cmd
}

func runSync(cmd *cobra.Command, opts *RootOptions) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	a.probe(ctx)

	report, err := a.engine.SyncAll(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return printJSON(out, report)
	}

	if report.Attempted == 0 {
		fmt.Fprintln(out, "Queue is empty; nothing to sync.")
		return nil
	}

	fmt.Fprintf(out, "Attempted %d, succeeded %d, failed %d.\n",
		report.Attempted, len(report.Succeeded), len(report.Failed))
	for _, failure := range report.Failed {
		fmt.Fprintf(out, "  queue id %d: %s\n", failure.ID, failure.Reason)
	}
	return nil
}
