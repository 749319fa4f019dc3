// Package server exposes the synthesis orchestrator and artifact store as an
// HTTP JSON API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/tts-api/internal/artifact"
	"github.com/book-expert/tts-api/internal/core"
	"github.com/book-expert/tts-api/internal/metrics"
	"github.com/book-expert/tts-api/internal/synth"
	"github.com/book-expert/tts-api/internal/voices"
)

// Service identity reported by the index and health endpoints.
const (
	ServiceName    = "tts-api"
	ServiceVersion = "1.0.0"
)

const headerContentType = "Content-Type"

const contentTypeJSON = "application/json"

// Server wires the core components to the HTTP surface.
type Server struct {
	orchestrator    *synth.Orchestrator
	store           *artifact.Store
	registry        *voices.Registry
	metrics         *metrics.Metrics
	cleanupInterval time.Duration
	log             *logger.Logger
}

// New creates a Server. cleanupInterval is the artifact retention threshold
// reported by the stats endpoint.
func New(
	orchestrator *synth.Orchestrator,
	store *artifact.Store,
	registry *voices.Registry,
	m *metrics.Metrics,
	cleanupInterval time.Duration,
	log *logger.Logger,
) *Server {
	return &Server{
		orchestrator:    orchestrator,
		store:           store,
		registry:        registry,
		metrics:         m,
		cleanupInterval: cleanupInterval,
		log:             log,
	}
}

// Handler returns the routed HTTP handler for the full API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /voices", s.handleVoices)
	mux.HandleFunc("POST /tts", s.handleSynthesize)
	mux.HandleFunc("POST /tts/batch", s.handleSynthesizeBatch)
	mux.HandleFunc("GET /audio/{id}", s.handleDownload)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return mux
}

// errorBody is the JSON error shape returned on every failure.
type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		s.log.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorBody{Detail: detail})
}

// statusForError maps the core error taxonomy onto HTTP status codes:
// validation errors to 400, unknown artifacts to 404, everything else
// (synthesis, storage) to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrTextEmpty),
		errors.Is(err, core.ErrTextTooLong),
		errors.Is(err, core.ErrBatchTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrArtifactNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
