// Package scheduler tests for background sync triggering.
package scheduler

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/harvestlane/contactsync/internal/connectivity"
	"github.com/harvestlane/contactsync/internal/sync"
)

// fakeSyncer counts SyncAll invocations.
type fakeSyncer struct {
	mu    stdsync.Mutex
	calls int
}

func (f *fakeSyncer) SyncAll(ctx context.Context) (*sync.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &sync.Report{Succeeded: []int64{}, Failed: []sync.ItemFailure{}}, nil
}

func (f *fakeSyncer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

// TestScheduler_reconnectTriggersSync verifies the offline-to-online edge
// fires a run.
func TestScheduler_reconnectTriggersSync(t *testing.T) {
	engine := &fakeSyncer{}
	monitor := connectivity.NewMonitor()

	s := New(engine, monitor, &Config{ResyncInterval: time.Hour})
	s.Start(context.Background())
	defer s.Stop()

	monitor.SetOnline(true)

	waitFor(t, func() bool { return engine.count() == 1 })
}

// TestScheduler_onlineToOfflineDoesNotTrigger verifies only the online edge
// fires.
func TestScheduler_onlineToOfflineDoesNotTrigger(t *testing.T) {
	engine := &fakeSyncer{}
	monitor := connectivity.NewMonitorWithState(connectivity.StateOnline)

	s := New(engine, monitor, &Config{ResyncInterval: time.Hour})
	s.Start(context.Background())
	defer s.Stop()

	monitor.SetOnline(false)

	time.Sleep(50 * time.Millisecond)
	if engine.count() != 0 {
		t.Errorf("SyncAll calls = %d, want 0", engine.count())
	}
}

// TestScheduler_periodicResync verifies the best-effort timer fires while
// online.
func TestScheduler_periodicResync(t *testing.T) {
	engine := &fakeSyncer{}
	monitor := connectivity.NewMonitorWithState(connectivity.StateOnline)

	s := New(engine, monitor, &Config{ResyncInterval: 20 * time.Millisecond})
	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return engine.count() >= 2 })
}

// TestScheduler_periodicSkippedOffline verifies the timer is a no-op offline.
func TestScheduler_periodicSkippedOffline(t *testing.T) {
	engine := &fakeSyncer{}
	monitor := connectivity.NewMonitor()

	s := New(engine, monitor, &Config{ResyncInterval: 10 * time.Millisecond})
	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(60 * time.Millisecond)
	if engine.count() != 0 {
		t.Errorf("SyncAll calls = %d, want 0 while offline", engine.count())
	}
}

// TestScheduler_SyncNow verifies the explicit trigger returns the report.
func TestScheduler_SyncNow(t *testing.T) {
	engine := &fakeSyncer{}
	monitor := connectivity.NewMonitor()

	s := New(engine, monitor, nil)

	report, err := s.SyncNow(context.Background())
	if err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}
	if report == nil {
		t.Fatal("SyncNow() returned nil report")
	}
	if engine.count() != 1 {
		t.Errorf("SyncAll calls = %d, want 1", engine.count())
	}
}

// TestScheduler_StopIsIdempotent verifies Start/Stop lifecycle.
func TestScheduler_StopIsIdempotent(t *testing.T) {
	engine := &fakeSyncer{}
	monitor := connectivity.NewMonitor()

	s := New(engine, monitor, &Config{ResyncInterval: time.Hour})
	s.Start(context.Background())

	if !s.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}

	s.Stop()
	s.Stop() // second Stop must not panic

	if s.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}

	// Transitions after Stop do not trigger runs.
	monitor.SetOnline(true)
	time.Sleep(50 * time.Millisecond)
	if engine.count() != 0 {
		t.Errorf("SyncAll calls = %d after Stop, want 0", engine.count())
	}
}
