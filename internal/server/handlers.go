package server

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/models"
	"github.com/harvestlane/contactsync/internal/submit"
	"github.com/harvestlane/contactsync/internal/uuid"
)

// createForm handles POST /api/form.
func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	var input models.FormInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input = submit.Normalize(input)
	if fieldErrors := submit.Validate(input); fieldErrors != nil {
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Validation failed",
			Errors:  fieldErrors,
		})
		return
	}

	record := &models.RemoteSubmission{
		Name:               input.Name,
		Email:              input.Email,
		Phone:              submit.NormalizePhone(input.Phone),
		Message:            input.Message,
		InterestedProducts: models.StringList(input.InterestedProducts),
	}
	if err := s.store.Create(record); err != nil {
		logging.Error("failed to store submission", err)
		writeError(w, http.StatusInternalServerError, "failed to store submission")
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Form submitted successfully",
		Data:    record,
	})
}

// listForms handles GET /api/form, most recent first.
func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		logging.Error("failed to list submissions", err)
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	if records == nil {
		records = []*models.RemoteSubmission{}
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Count:   len(records),
		Data:    records,
	})
}

// deleteForm handles DELETE /api/form/{id}.
func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := uuid.Validate(id); err != nil {
		writeError(w, http.StatusNotFound, "Submission not found")
		return
	}

	found, err := s.store.Delete(id)
	if err != nil {
		logging.Error("failed to delete submission", err, map[string]interface{}{
			"id": id,
		})
		writeError(w, http.StatusInternalServerError, "failed to delete submission")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Submission not found")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Submission deleted",
	})
}

// analyzeMessage handles POST /api/analyze. The message may come in raw, or
// by id of a stored submission.
func (s *Server) analyzeMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string                  `json:"message"`
		ID      string                  `json:"id"`
		Options *models.AnalysisOptions `json:"options"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := req.Message
	if message == "" && req.ID != "" {
		record, err := s.store.Get(req.ID)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load submission")
			return
		}
		message = record.Message
	}
	if message == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	opts := models.DefaultAnalysisOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	result, err := s.analyzer.Analyze(r.Context(), message, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    result,
	})
}

// status handles GET /api/status.
func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read store")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: map[string]interface{}{
			"status":      "ok",
			"submissions": count,
			"aiEnabled":   s.analyzer.Configured(),
		},
	})
}
