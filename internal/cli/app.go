package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/harvestlane/contactsync/internal/config"
	"github.com/harvestlane/contactsync/internal/connectivity"
	"github.com/harvestlane/contactsync/internal/db"
	"github.com/harvestlane/contactsync/internal/remote"
	"github.com/harvestlane/contactsync/internal/submit"
	syncengine "github.com/harvestlane/contactsync/internal/sync"
)

// app bundles the client-side stack a command needs: local queue, remote
// client, connectivity, submit client, and sync engine.
type app struct {
	cfg      *config.Config
	database *db.DB
	queue    *db.QueueStore
	monitor  *connectivity.Monitor
	prober   *connectivity.Prober
	remote   *remote.Client
	submit   *submit.Client
	engine   *syncengine.Engine
}

// openApp loads configuration, opens the local database, and wires the stack.
func openApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	if err := db.NewMigrator(database.DB).Up(); err != nil {
		database.Close()
		return nil, err
	}

	queue := db.NewQueueStore(database.DB)
	monitor := connectivity.NewMonitor()
	prober := connectivity.NewProber(monitor, cfg.API.BaseURL+"/api/status", cfg.Sync.ProbeInterval())
	client := remote.NewClient(cfg.API.BaseURL, cfg.API.Timeout())

	return &app{
		cfg:      cfg,
		database: database,
		queue:    queue,
		monitor:  monitor,
		prober:   prober,
		remote:   client,
		submit:   submit.NewClient(monitor, queue, client),
		engine:   syncengine.NewEngine(queue, client),
	}, nil
}

// probe refreshes the connectivity state once before a command runs.
func (a *app) probe(ctx context.Context) connectivity.State {
	return a.prober.Check(ctx)
}

func (a *app) Close() error {
	return a.database.Close()
}

// printJSON writes v as indented JSON, used by every command's json format.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
