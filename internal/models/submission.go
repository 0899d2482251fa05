// Package models provides data model definitions for the contact submission pipeline.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a wrapper around []string stored as a JSON array in a TEXT column.
type StringList []string

// Value implements driver.Valuer for StringList.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for StringList.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// FormInput is the raw form payload as entered by the user, before validation.
type FormInput struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Message            string   `json:"message"`
	InterestedProducts []string `json:"interestedProducts,omitempty"`
}

// Submission represents a customer inquiry held in the local queue,
// awaiting upload to the remote API.
type Submission struct {
	ID                 int64      `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	Phone              string     `db:"phone" json:"phone"`
	Message            string     `db:"message" json:"message"`
	InterestedProducts StringList `db:"interested_products" json:"interestedProducts"`
	CreatedAt          int64      `db:"created_at" json:"created_at"`
	Synced             bool       `db:"synced" json:"synced"`
}

// TableName returns the table name for Submission.
func (Submission) TableName() string {
	return "pending_submissions"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (s *Submission) CreatedAtTime() time.Time {
	return time.Unix(s.CreatedAt, 0)
}

// RemoteSubmission is the server's canonical record. It is immutable from
// the client's perspective once created; the client only holds cached copies.
type RemoteSubmission struct {
	ID                 string     `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	Phone              string     `db:"phone" json:"phone"`
	Message            string     `db:"message" json:"message"`
	InterestedProducts StringList `db:"interested_products" json:"interestedProducts"`
	CreatedAt          int64      `db:"created_at" json:"created_at"`
}

// TableName returns the table name for RemoteSubmission.
func (RemoteSubmission) TableName() string {
	return "submissions"
}

// DisplayRow is one entry of the reconciled pending+remote list shown to the
// user. Derived on demand, never persisted.
type DisplayRow struct {
	IsPending          bool     `json:"isPending"`
	LocalID            int64    `json:"localId,omitempty"`
	RemoteID           string   `json:"remoteId,omitempty"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Message            string   `json:"message"`
	InterestedProducts []string `json:"interestedProducts,omitempty"`
	CreatedAt          int64    `json:"created_at"`
}
