package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harvestlane/contactsync/internal/connectivity"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show connectivity and queue state",

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, rootOpts)
		},
	}
	return cmd
}

func runStatus(cmd *cobra.Command, opts *RootOptions) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	state := a.probe(cmd.Context())

	count, err := a.queue.Count()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return printJSON(out, map[string]interface{}{
			"connectivity": string(state),
			"pending":      count,
			"apiBaseUrl":   a.cfg.API.BaseURL,
		})
	}

	label := "offline"
	if state == connectivity.StateOnline {
		label = "online"
	}
	fmt.Fprintf(out, "API:          %s (%s)\n", a.cfg.API.BaseURL, label)
	fmt.Fprintf(out, "Pending:      %d queued submission(s)\n", count)
	return nil
}
