// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clinicode/rxscan/internal/config"
	"github.com/clinicode/rxscan/internal/pipeline"
	"github.com/clinicode/rxscan/internal/recognize"
)

// extractor is the slice of the pipeline the server needs.
type extractor interface {
	Extract(ctx context.Context, data []byte, filename string) (*pipeline.Result, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	extractor   extractor
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	config      config.Config
	logger      *slog.Logger
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Time      string `json:"time"`
}

// ErrorResponse is the error payload for every non-2xx response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates an extraction server. The engine may be nil, in
// which case the pipeline runs with the null recognizer and every
// request degrades to a review-flagged document.
func NewServer(cfg config.Config, engine recognize.Engine, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lex, err := cfg.NewLexicon()
	if err != nil {
		return nil, fmt.Errorf("building lexicon: %w", err)
	}
	orch, err := pipeline.New(cfg.Pipeline, engine, lex, logger)
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}

	return &Server{
		extractor:   orch,
		corsOrigin:  cfg.Server.CORSOrigin,
		maxUploadMB: int64(cfg.Server.MaxUploadMB),
		timeoutSec:  cfg.Server.TimeoutSec,
		config:      cfg,
		logger:      logger,
	}, nil
}

// SetupRoutes registers the API endpoints on the given mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/extract", s.corsMiddleware(s.extractHandler))
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/config", s.corsMiddleware(s.configHandler))
	mux.Handle("/metrics", metricsHandler())
}
