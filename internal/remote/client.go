// Package remote implements the client for the contact form REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harvestlane/contactsync/internal/errors"
	"github.com/harvestlane/contactsync/internal/models"
)

// apiEnvelope is the JSON envelope every API response uses.
type apiEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Count   int               `json:"count,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
}

// Client talks to the remote form API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client with the given request timeout. The timeout
// doubles as cancellation: an expired request is abandoned and classified
// as a network failure.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do executes a request and decodes the envelope. A transport-level failure
// (no HTTP response received) comes back as NETWORK_UNREACHABLE; everything
// the server actually answered is classified by the caller.
func (c *Client) do(req *http.Request) (int, *apiEnvelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// This is the single classification point for queue-eligible
		// failures: dial errors, DNS failures, resets and timeouts all
		// surface here, before any response exists.
		return 0, nil, errors.Wrap(errors.ErrNetworkUnreachable, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(errors.ErrSubmissionFailed, "failed to read response", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return resp.StatusCode, nil, errors.Wrap(errors.ErrSubmissionFailed,
			fmt.Sprintf("malformed response (status %d)", resp.StatusCode), err)
	}

	return resp.StatusCode, &envelope, nil
}

// CreateSubmission posts a submission to the remote API.
//
// Outcomes map onto the error taxonomy:
//   - success:true        -> the created RemoteSubmission
//   - success:false + field errors -> VALIDATION_ERROR (server is authoritative)
//   - transport failure   -> NETWORK_UNREACHABLE (queue-eligible)
//   - anything else       -> SUBMISSION_FAILED (surfaced, never auto-queued)
func (c *Client) CreateSubmission(ctx context.Context, input models.FormInput) (*models.RemoteSubmission, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to encode submission", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/form", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, envelope, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if envelope.Success {
		var record models.RemoteSubmission
		if err := json.Unmarshal(envelope.Data, &record); err != nil {
			return nil, errors.Wrap(errors.ErrSubmissionFailed, "malformed submission record", err)
		}
		return &record, nil
	}

	if len(envelope.Errors) > 0 {
		appErr := errors.NewValidation(envelope.Errors)
		if envelope.Message != "" {
			appErr.Message = envelope.Message
		}
		return nil, appErr
	}

	msg := envelope.Message
	if msg == "" {
		msg = fmt.Sprintf("server rejected submission (status %d)", status)
	}
	return nil, errors.New(errors.ErrSubmissionFailed, msg)
}

// ListSubmissions fetches the server's submission snapshot, in the order
// the server provides it (most recent first).
func (c *Client) ListSubmissions(ctx context.Context) ([]*models.RemoteSubmission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/form", nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build request", err)
	}

	status, envelope, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("server rejected list request (status %d)", status)
		}
		return nil, errors.New(errors.ErrSubmissionFailed, msg)
	}

	var records []*models.RemoteSubmission
	if err := json.Unmarshal(envelope.Data, &records); err != nil {
		return nil, errors.Wrap(errors.ErrSubmissionFailed, "malformed submission list", err)
	}
	return records, nil
}

// DeleteSubmission removes a submission by server id.
func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/form/"+id, nil)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to build request", err)
	}

	status, envelope, err := c.do(req)
	if err != nil {
		return err
	}

	if envelope.Success {
		return nil
	}
	if status == http.StatusNotFound {
		return errors.New(errors.ErrNotFound, envelope.Message)
	}
	msg := envelope.Message
	if msg == "" {
		msg = fmt.Sprintf("server rejected delete (status %d)", status)
	}
	return errors.New(errors.ErrSubmissionFailed, msg)
}
