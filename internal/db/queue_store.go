// Package db provides the durable local queue of pending submissions.
package db

import (
	"database/sql"
	"time"

	"github.com/harvestlane/contactsync/internal/errors"
	"github.com/harvestlane/contactsync/internal/models"
)

// QueueStore persists submissions awaiting upload. Every operation is
// independently transactional, so a crash mid-operation never leaves a
// half-written record.
type QueueStore struct {
	db *sql.DB
}

// NewQueueStore creates a QueueStore on top of an opened database.
func NewQueueStore(db *sql.DB) *QueueStore {
	return &QueueStore{db: db}
}

// Enqueue persists a new pending submission and returns its local id.
// CreatedAt is stamped at enqueue time unless the caller already set it,
// and Synced is always reset to false.
func (s *QueueStore) Enqueue(sub *models.Submission) (int64, error) {
	if sub.CreatedAt == 0 {
		sub.CreatedAt = time.Now().Unix()
	}
	sub.Synced = false

	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.Wrap(errors.ErrStorageFault, "failed to begin enqueue transaction", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO pending_submissions (name, email, phone, message, interested_products, created_at, synced)
	VALUES (?, ?, ?, ?, ?, ?, 0)
	`
	res, err := tx.Exec(query, sub.Name, sub.Email, sub.Phone, sub.Message,
		sub.InterestedProducts, sub.CreatedAt)
	if err != nil {
		return 0, errors.Wrap(errors.ErrStorageFault, "failed to persist submission", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(errors.ErrStorageFault, "failed to read local id", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(errors.ErrStorageFault, "failed to commit enqueue", err)
	}

	sub.ID = id
	return id, nil
}

// ListAll returns all pending submissions ordered by creation time.
// The ordering is a convenience; callers that need a different order
// sort on read.
func (s *QueueStore) ListAll() ([]*models.Submission, error) {
	query := `
	SELECT id, name, email, phone, message, interested_products, created_at, synced
	FROM pending_submissions
	ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStorageFault, "failed to list pending submissions", err)
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Message,
			&sub.InterestedProducts, &sub.CreatedAt, &sub.Synced); err != nil {
			return nil, errors.Wrap(errors.ErrStorageFault, "failed to scan pending submission", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrStorageFault, "failed to read pending submissions", err)
	}
	return subs, nil
}

// Get returns one pending submission by local id, or sql.ErrNoRows.
func (s *QueueStore) Get(id int64) (*models.Submission, error) {
	query := `
	SELECT id, name, email, phone, message, interested_products, created_at, synced
	FROM pending_submissions WHERE id = ?
	`
	var sub models.Submission
	err := s.db.QueryRow(query, id).Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone,
		&sub.Message, &sub.InterestedProducts, &sub.CreatedAt, &sub.Synced)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrStorageFault, "failed to get pending submission", err)
	}
	return &sub, nil
}

// Remove deletes a pending submission by local id. Removing an id that does
// not exist is not an error.
func (s *QueueStore) Remove(id int64) error {
	if _, err := s.db.Exec("DELETE FROM pending_submissions WHERE id = ?", id); err != nil {
		return errors.Wrap(errors.ErrStorageFault, "failed to remove pending submission", err)
	}
	return nil
}

// MarkSynced flags a pending submission as synced. The primary flow deletes
// directly on success; this intermediate marker exists for deferred deletion.
// Marking a missing id is not an error.
func (s *QueueStore) MarkSynced(id int64) error {
	if _, err := s.db.Exec("UPDATE pending_submissions SET synced = 1 WHERE id = ?", id); err != nil {
		return errors.Wrap(errors.ErrStorageFault, "failed to mark submission synced", err)
	}
	return nil
}

// Count returns the number of pending submissions.
func (s *QueueStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM pending_submissions").Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrStorageFault, "failed to count pending submissions", err)
	}
	return count, nil
}
