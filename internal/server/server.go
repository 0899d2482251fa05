// Package server implements the contact form REST API: the same contract the
// sync client speaks, backed by the shared SQLite layer. It exists so a full
// round trip (submit, queue, sync, reconcile) can run against a local stack.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harvestlane/contactsync/internal/analysis"
	"github.com/harvestlane/contactsync/internal/db"
	"github.com/harvestlane/contactsync/internal/logging"
)

// Server serves the contact form API over a submission store.
type Server struct {
	store    *db.SubmissionStore
	analyzer *analysis.Analyzer
	httpSrv  *http.Server
}

// New creates a Server listening on addr.
func New(addr string, store *db.SubmissionStore, analyzer *analysis.Analyzer) *Server {
	s := &Server{
		store:    store,
		analyzer: analyzer,
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// routes builds the router with global middleware.
func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(recovery)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/form", s.createForm)
		r.Get("/form", s.listForms)
		r.Delete("/form/{id}", s.deleteForm)

		r.Post("/analyze", s.analyzeMessage)
		r.Get("/status", s.status)
	})

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	logging.Info("API server listening", map[string]interface{}{
		"addr": s.httpSrv.Addr,
	})
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
