package submit

import (
	"context"

	"github.com/harvestlane/contactsync/internal/connectivity"
	"github.com/harvestlane/contactsync/internal/errors"
	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/models"
)

// Creator is the remote API surface Submit depends on.
type Creator interface {
	CreateSubmission(ctx context.Context, input models.FormInput) (*models.RemoteSubmission, error)
}

// Queue is the local queue surface Submit depends on.
type Queue interface {
	Enqueue(sub *models.Submission) (int64, error)
}

// Client is the single entry point for "the user wants to submit this form".
// It decides the online vs offline path and normalizes all lower-level
// faults into Outcome values; only a local storage fault escapes as an error.
type Client struct {
	monitor *connectivity.Monitor
	queue   Queue
	remote  Creator
}

// NewClient creates a submission Client.
func NewClient(monitor *connectivity.Monitor, queue Queue, remote Creator) *Client {
	return &Client{
		monitor: monitor,
		queue:   queue,
		remote:  remote,
	}
}

// Submit validates and submits a form input.
//
// The central rule: any network-class submission failure degrades to offline
// queuing rather than data loss. Server-returned failures that are not field
// validation surface as OutcomeFailed and are never auto-queued, since
// retrying could repeat a persistent server-side fault indefinitely.
//
// The only returned error is a STORAGE_FAULT: the offline path itself failed
// and the submission could not be saved at all.
func (c *Client) Submit(ctx context.Context, input models.FormInput) (*Outcome, error) {
	input = Normalize(input)

	// Validation happens before any storage or network operation.
	if fields := Validate(input); fields != nil {
		return &Outcome{Kind: OutcomeValidationFailed, FieldErrors: fields}, nil
	}

	if !c.monitor.Online() {
		return c.enqueue(input)
	}

	record, err := c.remote.CreateSubmission(ctx, input)
	if err == nil {
		logging.Info("submission accepted", map[string]interface{}{"remote_id": record.ID})
		return &Outcome{Kind: OutcomeSubmitted, Remote: record}, nil
	}

	switch {
	case errors.Is(err, errors.ErrValidation):
		appErr := err.(*errors.AppError)
		return &Outcome{Kind: OutcomeValidationFailed, FieldErrors: appErr.Fields}, nil

	case errors.Is(err, errors.ErrNetworkUnreachable):
		// The failed attempt is itself a platform signal.
		c.monitor.SetOnline(false)
		logging.Warn("network unreachable, falling back to local queue", map[string]interface{}{
			"error": err.Error(),
		})
		return c.enqueue(input)

	default:
		reason := "submission failed"
		if appErr, ok := err.(*errors.AppError); ok && appErr.Message != "" {
			reason = appErr.Message
		}
		logging.Error("submission rejected by server", err)
		return &Outcome{Kind: OutcomeFailed, Reason: reason}, nil
	}
}

// enqueue persists the input locally and reports it as queued.
func (c *Client) enqueue(input models.FormInput) (*Outcome, error) {
	sub := &models.Submission{
		Name:               input.Name,
		Email:              input.Email,
		Phone:              input.Phone,
		Message:            input.Message,
		InterestedProducts: models.StringList(input.InterestedProducts),
	}

	id, err := c.queue.Enqueue(sub)
	if err != nil {
		// No further fallback exists; the UI must tell the user their
		// submission could not be saved at all.
		return nil, err
	}

	logging.Info("submission queued for later sync", map[string]interface{}{"local_id": id})
	return &Outcome{Kind: OutcomeQueued, LocalID: id}, nil
}
