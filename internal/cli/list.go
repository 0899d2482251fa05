package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harvestlane/contactsync/internal/connectivity"
	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/models"
	"github.com/harvestlane/contactsync/internal/view"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show queued and remote submissions as one list",
		Long: `Show the reconciled submission list: locally queued records first
(marked pending), then the server's records. When offline, only the
local queue is shown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts)
		},
	}
	return cmd
}

func runList(cmd *cobra.Command, opts *RootOptions) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	state := a.probe(ctx)

	pending, err := a.queue.ListAll()
	if err != nil {
		return err
	}

	var remoteRecords []*models.RemoteSubmission
	if state == connectivity.StateOnline {
		remoteRecords, err = a.remote.ListSubmissions(ctx)
		if err != nil {
			// Degrade to the local queue rather than failing the command.
			logging.Warn("could not fetch remote submissions", map[string]interface{}{
				"error": err.Error(),
			})
			remoteRecords = nil
		}
	}

	rows := view.Build(pending, remoteRecords)

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return printJSON(out, rows)
	}

	if state != connectivity.StateOnline {
		fmt.Fprintln(out, "(offline: showing local queue only)")
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No submissions.")
		return nil
	}

	for _, row := range rows {
		marker := "      "
		if row.IsPending {
			marker = "[PEND]"
		}
		fmt.Fprintf(out, "%s %s  %s  %s  %s\n",
			marker,
			time.Unix(row.CreatedAt, 0).Format("2006-01-02 15:04"),
			row.Name, row.Email, row.Message)
	}
	return nil
}
