// Package scheduler triggers background sync runs for the submission queue.
package scheduler

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/harvestlane/contactsync/internal/connectivity"
	"github.com/harvestlane/contactsync/internal/errors"
	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/sync"
)

// Syncer is the engine surface the scheduler drives.
type Syncer interface {
	SyncAll(ctx context.Context) (*sync.Report, error)
}

// Config holds scheduler configuration.
type Config struct {
	// ResyncInterval is the best-effort periodic resync while online.
	// Correctness never depends on it; the offline-to-online transition
	// is the trigger that matters.
	ResyncInterval time.Duration
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		ResyncInterval: 15 * time.Minute,
	}
}

// Scheduler fires sync runs on connectivity transitions, on an explicit
// "sync now" request, and on a recurring best-effort timer.
type Scheduler struct {
	engine   Syncer
	monitor  *connectivity.Monitor
	interval time.Duration

	stopCh    chan struct{}
	wg        stdsync.WaitGroup
	mu        stdsync.Mutex
	isRunning bool
}

// New creates a Scheduler.
func New(engine Syncer, monitor *connectivity.Monitor, config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scheduler{
		engine:   engine,
		monitor:  monitor,
		interval: config.ResyncInterval,
		stopCh:   make(chan struct{}),
	}
}

// Start registers the connectivity trigger and starts the periodic loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	// Trigger point (a): the offline-to-online transition.
	s.monitor.OnChange(func(state connectivity.State) {
		if state != connectivity.StateOnline {
			return
		}
		if !s.IsRunning() {
			return
		}
		go s.run(ctx, "reconnect")
	})

	s.wg.Add(1)
	go s.periodicLoop(ctx)

	logging.Info("sync scheduler started")
}

// Stop stops the scheduler gracefully.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	logging.Info("sync scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// SyncNow triggers an immediate run and waits for its report.
// Trigger point (b): explicit user action.
func (s *Scheduler) SyncNow(ctx context.Context) (*sync.Report, error) {
	return s.engine.SyncAll(ctx)
}

// periodicLoop fires best-effort resyncs while online.
// Trigger point (c): recurring background timer, an optimization only.
func (s *Scheduler) periodicLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if !s.monitor.Online() {
				continue
			}
			s.run(ctx, "periodic")
		}
	}
}

// run executes one sync pass, tolerating overlap rejection.
func (s *Scheduler) run(ctx context.Context, trigger string) {
	report, err := s.engine.SyncAll(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrSyncInProgress) {
			logging.Debug("sync already in progress, skipping", map[string]interface{}{
				"trigger": trigger,
			})
			return
		}
		logging.Error("background sync failed", err, map[string]interface{}{
			"trigger": trigger,
		})
		return
	}

	logging.Info("background sync finished", map[string]interface{}{
		"trigger":   trigger,
		"attempted": report.Attempted,
		"succeeded": len(report.Succeeded),
		"failed":    len(report.Failed),
	})
}
