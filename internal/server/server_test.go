// Package server tests exercise the API contract end to end over a real
// SQLite store.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestlane/contactsync/internal/analysis"
	"github.com/harvestlane/contactsync/internal/db"
	"github.com/harvestlane/contactsync/internal/models"
)

// testEnvelope mirrors the response shape for decoding in assertions.
type testEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Count   int               `json:"count"`
	Data    json.RawMessage   `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.NewMigrator(database.DB).Up())

	store := db.NewSubmissionStore(database.DB)
	t.Cleanup(func() { store.Close() })

	srv := New("127.0.0.1:0", store, analysis.New(analysis.Config{}))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, testEnvelope) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func getJSON(t *testing.T, url string) (*http.Response, testEnvelope) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func validInput() models.FormInput {
	return models.FormInput{
		Name:               "Maria Lopez",
		Email:              "maria@example.com",
		Phone:              "(555) 123-4567",
		Message:            "Do you deliver on weekends?",
		InterestedProducts: []string{"eggs", "honey"},
	}
}

func TestCreateForm_valid(t *testing.T) {
	ts := newTestServer(t)

	resp, env := postJSON(t, ts.URL+"/api/form", validInput())

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	var record models.RemoteSubmission
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "5551234567", record.Phone, "phone should be stored digits-only")
	assert.NotZero(t, record.CreatedAt)
}

func TestCreateForm_validationErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, env := postJSON(t, ts.URL+"/api/form", models.FormInput{
		Name:    "   ",
		Email:   "not-an-email",
		Phone:   "123",
		Message: "",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	for _, field := range []string{"name", "email", "phone", "message"} {
		assert.Contains(t, env.Errors, field)
	}

	// Nothing was stored.
	_, list := getJSON(t, ts.URL+"/api/form")
	assert.Equal(t, 0, list.Count)
}

func TestCreateForm_malformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/form", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListForms_mostRecentFirst(t *testing.T) {
	ts := newTestServer(t)

	first := validInput()
	first.Name = "First"
	second := validInput()
	second.Name = "Second"

	postJSON(t, ts.URL+"/api/form", first)
	postJSON(t, ts.URL+"/api/form", second)

	resp, env := getJSON(t, ts.URL+"/api/form")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Count)

	var records []*models.RemoteSubmission
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 2)
	// Same-second inserts fall back to id ordering, so just check both exist.
	names := []string{records[0].Name, records[1].Name}
	assert.ElementsMatch(t, []string{"First", "Second"}, names)
}

func TestDeleteForm(t *testing.T) {
	ts := newTestServer(t)

	_, created := postJSON(t, ts.URL+"/api/form", validInput())
	var record models.RemoteSubmission
	require.NoError(t, json.Unmarshal(created.Data, &record))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/form/"+record.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A second delete of the same id is a 404.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteForm_invalidID(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/form/not-a-uuid", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyze_rawMessage(t *testing.T) {
	ts := newTestServer(t)

	resp, env := postJSON(t, ts.URL+"/api/analyze", map[string]interface{}{
		"message": "The vegetables were wonderful, thank you so much!",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var result models.MessageAnalysis
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "positive", result.Sentiment)
	assert.NotEmpty(t, result.Keywords)
}

func TestAnalyze_byStoredID(t *testing.T) {
	ts := newTestServer(t)

	input := validInput()
	input.Message = "My order was damaged and I am very unhappy."
	_, created := postJSON(t, ts.URL+"/api/form", input)
	var record models.RemoteSubmission
	require.NoError(t, json.Unmarshal(created.Data, &record))

	resp, env := postJSON(t, ts.URL+"/api/analyze", map[string]interface{}{
		"id": record.ID,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result models.MessageAnalysis
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "negative", result.Sentiment)
}

func TestAnalyze_missingMessage(t *testing.T) {
	ts := newTestServer(t)

	resp, env := postJSON(t, ts.URL+"/api/analyze", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "No message provided", env.Message)
}

func TestAnalyze_unknownID(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/api/analyze", map[string]interface{}{
		"id": "3b9f6a52-1c44-4a9e-8f0d-2d35c1b7a001",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t)

	postJSON(t, ts.URL+"/api/form", validInput())

	resp, env := getJSON(t, ts.URL+"/api/status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var status struct {
		Status      string `json:"status"`
		Submissions int    `json:"submissions"`
		AIEnabled   bool   `json:"aiEnabled"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, status.Submissions)
	assert.False(t, status.AIEnabled)
}
