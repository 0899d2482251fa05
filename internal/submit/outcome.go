package submit

import "github.com/harvestlane/contactsync/internal/models"

// OutcomeKind tags the result of a submit attempt.
type OutcomeKind string

const (
	// OutcomeSubmitted means the server confirmed the record.
	OutcomeSubmitted OutcomeKind = "submitted"

	// OutcomeQueued means the submission was persisted locally for later sync.
	// From the user's perspective this is a success with a pending indicator,
	// not an error.
	OutcomeQueued OutcomeKind = "queued"

	// OutcomeValidationFailed means field-level errors; recoverable by user
	// edit and never retried automatically.
	OutcomeValidationFailed OutcomeKind = "validation_failed"

	// OutcomeFailed means the server rejected the submission for a reason
	// other than field validation. Surfaced with a retry affordance, never
	// auto-queued.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the tagged result of Submit. Exactly the fields matching Kind
// are populated.
type Outcome struct {
	Kind OutcomeKind

	// Remote holds the confirmed record for OutcomeSubmitted.
	Remote *models.RemoteSubmission

	// LocalID holds the queue id for OutcomeQueued.
	LocalID int64

	// FieldErrors holds per-field messages for OutcomeValidationFailed.
	FieldErrors map[string]string

	// Reason holds the failure text for OutcomeFailed, using the remote
	// API's message when available.
	Reason string
}
