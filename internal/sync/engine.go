// Package sync drains the local submission queue against the remote API.
package sync

import (
	"context"
	"sort"
	stdsync "sync"
	"time"

	"github.com/harvestlane/contactsync/internal/errors"
	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/models"
)

// Queue is the local queue surface the engine drains.
type Queue interface {
	ListAll() ([]*models.Submission, error)
	Remove(id int64) error
}

// Creator is the remote API surface the engine submits to.
type Creator interface {
	CreateSubmission(ctx context.Context, input models.FormInput) (*models.RemoteSubmission, error)
}

// ItemFailure records one submission that failed to sync.
type ItemFailure struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// Report summarizes one SyncAll run.
type Report struct {
	Attempted int           `json:"attempted"`
	Succeeded []int64       `json:"succeeded"`
	Failed    []ItemFailure `json:"failed"`
}

// Engine uploads pending submissions once connectivity is restored.
// Invocations are serialized: a SyncAll entered while another run is in
// flight returns SYNC_IN_PROGRESS instead of double-submitting records.
type Engine struct {
	queue  Queue
	remote Creator

	runMu stdsync.Mutex // held for the duration of one SyncAll

	stateMu    stdsync.RWMutex
	lastSync   *time.Time
	lastReport *Report
}

// NewEngine creates a sync Engine.
func NewEngine(queue Queue, remote Creator) *Engine {
	return &Engine{
		queue:  queue,
		remote: remote,
	}
}

// LastSync returns the completion time of the last successful run.
func (e *Engine) LastSync() *time.Time {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.lastSync
}

// LastReport returns the report of the last completed run.
func (e *Engine) LastReport() *Report {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.lastReport
}

// SyncAll reads every pending submission and issues an independent create
// request for each. A confirmed acceptance deletes the local record; any
// failure leaves it intact, untouched, with the reason recorded. Items are
// submitted concurrently since submissions carry no ordering dependency.
func (e *Engine) SyncAll(ctx context.Context) (*Report, error) {
	if !e.runMu.TryLock() {
		return nil, errors.New(errors.ErrSyncInProgress, "sync already in progress")
	}
	defer e.runMu.Unlock()

	pending, err := e.queue.ListAll()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Attempted: len(pending),
		Succeeded: []int64{},
		Failed:    []ItemFailure{},
	}

	if len(pending) == 0 {
		e.finish(report)
		return report, nil
	}

	logging.Info("sync started", map[string]interface{}{"pending": len(pending)})

	var (
		wg       stdsync.WaitGroup
		reportMu stdsync.Mutex
	)

	for _, sub := range pending {
		wg.Add(1)
		go func(sub *models.Submission) {
			defer wg.Done()

			id, failReason := e.syncOne(ctx, sub)

			reportMu.Lock()
			defer reportMu.Unlock()
			if failReason == "" {
				report.Succeeded = append(report.Succeeded, id)
			} else {
				report.Failed = append(report.Failed, ItemFailure{ID: id, Reason: failReason})
			}
		}(sub)
	}

	wg.Wait()

	// Completion order is not guaranteed; sort for a deterministic report.
	sort.Slice(report.Succeeded, func(i, j int) bool { return report.Succeeded[i] < report.Succeeded[j] })
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].ID < report.Failed[j].ID })

	logging.Info("sync completed", map[string]interface{}{
		"attempted": report.Attempted,
		"succeeded": len(report.Succeeded),
		"failed":    len(report.Failed),
	})

	e.finish(report)
	return report, nil
}

// syncOne submits a single pending record and deletes it on confirmed
// acceptance. Returns an empty reason on success.
func (e *Engine) syncOne(ctx context.Context, sub *models.Submission) (int64, string) {
	input := models.FormInput{
		Name:               sub.Name,
		Email:              sub.Email,
		Phone:              sub.Phone,
		Message:            sub.Message,
		InterestedProducts: []string(sub.InterestedProducts),
	}

	record, err := e.remote.CreateSubmission(ctx, input)
	if err != nil {
		logging.Warn("pending submission failed to sync", map[string]interface{}{
			"local_id": sub.ID,
			"error":    err.Error(),
		})
		return sub.ID, err.Error()
	}

	if err := e.queue.Remove(sub.ID); err != nil {
		// The record is on the server but still present locally; it must
		// not be reported as succeeded while the queue holds it. The next
		// run will retry (create-only duplicates are accepted upstream).
		logging.Error("failed to remove synced submission", err, map[string]interface{}{
			"local_id": sub.ID,
		})
		return sub.ID, err.Error()
	}

	logging.Debug("pending submission synced", map[string]interface{}{
		"local_id":  sub.ID,
		"remote_id": record.ID,
	})
	return sub.ID, ""
}

// finish records run state for status reporting.
func (e *Engine) finish(report *Report) {
	now := time.Now()
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.lastSync = &now
	e.lastReport = report
}
