package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harvestlane/contactsync/internal/analysis"
	"github.com/harvestlane/contactsync/internal/config"
	"github.com/harvestlane/contactsync/internal/db"
	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the contact form API server",
		Long: `Run the contact form API server: the same REST contract the client
syncs against, backed by a local SQLite store. Useful for development
and for running the full stack on one machine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts)
		},
	}
	return cmd
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.Data.Dir)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.NewMigrator(database.DB).Up(); err != nil {
		return err
	}

	store := db.NewSubmissionStore(database.DB)
	defer store.Close()

	analyzer := analysis.New(analysis.Config{
		Provider: analysis.Provider(cfg.Analysis.Provider),
		APIKey:   cfg.Analysis.APIKey,
		Model:    cfg.Analysis.Model,
		Endpoint: cfg.Analysis.Endpoint,
		Timeout:  cfg.Analysis.Timeout(),
	})

	srv := server.New(cfg.Server.Addr(), store, analyzer)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s. Press Ctrl-C to stop.\n", cfg.Server.Addr())

	select {
	case sig := <-sigChan:
		logging.Info("received signal, shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
	case <-ctx.Done():
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
