// Package db provides the server-side submission store used by the
// reference API implementation.
package db

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/harvestlane/contactsync/internal/models"
	"github.com/harvestlane/contactsync/internal/uuid"
)

// SubmissionStore holds the server's canonical submission records.
type SubmissionStore struct {
	db *sql.DB

	// Prepared statement cache for frequently used queries.
	stmtCache sync.Map // map[string]*sql.Stmt
}

// NewSubmissionStore creates a SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// prepareStmt gets or creates a prepared statement from the cache.
func (s *SubmissionStore) prepareStmt(query string) (*sql.Stmt, error) {
	if stmt, ok := s.stmtCache.Load(query); ok {
		return stmt.(*sql.Stmt), nil
	}

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	actual, loaded := s.stmtCache.LoadOrStore(query, stmt)
	if loaded {
		stmt.Close()
		return actual.(*sql.Stmt), nil
	}
	return stmt, nil
}

// Close closes all cached prepared statements.
func (s *SubmissionStore) Close() error {
	var firstErr error
	s.stmtCache.Range(func(key, value interface{}) bool {
		if err := value.(*sql.Stmt).Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// Create persists a new submission, assigning a server id and timestamp.
func (s *SubmissionStore) Create(sub *models.RemoteSubmission) error {
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now().Unix()

	query := `
	INSERT INTO submissions (id, name, email, phone, message, interested_products, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, sub.ID, sub.Name, sub.Email, sub.Phone, sub.Message,
		sub.InterestedProducts, sub.CreatedAt)
	return err
}

// List returns all submissions, most recent first.
func (s *SubmissionStore) List() ([]*models.RemoteSubmission, error) {
	query := `
	SELECT id, name, email, phone, message, interested_products, created_at
	FROM submissions
	ORDER BY created_at DESC, id DESC
	`
	stmt, err := s.prepareStmt(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.RemoteSubmission
	for rows.Next() {
		var sub models.RemoteSubmission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Message,
			&sub.InterestedProducts, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

// Get returns one submission by server id, or sql.ErrNoRows.
func (s *SubmissionStore) Get(id string) (*models.RemoteSubmission, error) {
	query := `
	SELECT id, name, email, phone, message, interested_products, created_at
	FROM submissions WHERE id = ?
	`
	stmt, err := s.prepareStmt(query)
	if err != nil {
		return nil, err
	}

	var sub models.RemoteSubmission
	err = stmt.QueryRow(id).Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone,
		&sub.Message, &sub.InterestedProducts, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Delete removes a submission by server id. Returns false if no record
// with that id exists.
func (s *SubmissionStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of stored submissions.
func (s *SubmissionStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM submissions").Scan(&count)
	return count, err
}
