package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/sync/scheduler"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the background sync loop",
		Long: `Run the connectivity prober and sync scheduler in the foreground.

Queued submissions are uploaded whenever connectivity returns, and a
periodic resync covers missed transitions. Runs until interrupted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, rootOpts)
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command, opts *RootOptions) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sched := scheduler.New(a.engine, a.monitor, &scheduler.Config{
		ResyncInterval: a.cfg.Sync.ResyncInterval(),
	})
	sched.Start(ctx)
	defer sched.Stop()

	go a.prober.Run(ctx)

	fmt.Fprintln(cmd.OutOrStdout(), "Watching for connectivity. Press Ctrl-C to stop.")

	select {
	case sig := <-sigChan:
		logging.Info("received signal, shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
		cancel()
	case <-ctx.Done():
	}
	return nil
}
