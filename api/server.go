// Package api exposes a Book over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xraph/lendbook"
	"github.com/xraph/lendbook/i18n"
)

// Server is the lendbook HTTP API.
type Server struct {
	book    *lendbook.Book
	bundle  *i18n.Bundle
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithBundle localizes transaction descriptions using the request's
// Accept-Language header. Without a bundle the Book's translator is used.
func WithBundle(b *i18n.Bundle) Option {
	return func(s *Server) { s.bundle = b }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new API server.
func NewServer(b *lendbook.Book, opts ...Option) *Server {
	s := &Server{book: b, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/obligations", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleAdd)
		r.Delete("/", s.handleClear)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Patch("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Post("/paid", s.handleMarkPaid)
			r.Post("/unpaid", s.handleMarkUnpaid)
		})
	})

	r.Get("/statistics", s.handleStatistics)
	r.Get("/export", s.handleExport)
	r.Post("/import", s.handleImport)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return r
}

// translator picks a Localizer for the request, or nil to let the Book use
// its own translator.
func (s *Server) translator(r *http.Request) i18n.Translator {
	if s.bundle == nil {
		return nil
	}
	lang := r.Header.Get("Accept-Language")
	if lang == "" {
		return nil
	}
	return s.bundle.Localizer(lang)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"status":  status,
		},
	})
}

// statusFor maps Book errors to HTTP status codes. Anything unrecognized
// came from the wallet recorder.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lendbook.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lendbook.ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, lendbook.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, lendbook.ErrNoRecorder), errors.Is(err, lendbook.ErrNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
