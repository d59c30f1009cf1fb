package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/clinicode/rxscan/internal/pipeline"
	"github.com/clinicode/rxscan/internal/preprocess"
	"github.com/clinicode/rxscan/internal/version"
)

// supportedExtensions lists the upload formats the decode layer
// accepts. Anything else is rejected before the pipeline runs.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".pdf":  true,
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ver, commit, date := version.Info()
	response := HealthResponse{
		Status:    "healthy",
		Version:   ver,
		GitCommit: commit,
		BuildDate: date,
		Time:      time.Now().UTC().Format(time.RFC3339),
	}
	s.writeJSON(w, http.StatusOK, response)
}

// configHandler returns the resolved configuration. The config carries
// no secrets; exposing it helps field calibration.
func (s *Server) configHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.config)
}

// extractHandler processes one uploaded prescription document.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.writeError(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != "" && !supportedExtensions[ext] {
		s.writeError(w, "Unsupported file format: "+ext, http.StatusUnprocessableEntity)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, "Failed to read file data", http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		s.writeError(w, "Empty file", http.StatusBadRequest)
		return
	}
	uploadSizeBytes.Observe(float64(len(data)))

	if s.extractor == nil {
		s.writeError(w, "Extraction pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	result, err := s.extractor.Extract(ctx, data, header.Filename)
	extractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var decErr *preprocess.DecodeError
		if errors.As(err, &decErr) {
			extractionsTotal.WithLabelValues("unsupported", "").Inc()
			s.writeError(w, "Could not decode file as an image: "+decErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		extractionsTotal.WithLabelValues("error", "").Inc()
		s.logger.Error("extraction failed", "filename", header.Filename, "error", err)
		// Failures keep the summary shape so clients always see review
		// state and timing. The internal error stays in the log.
		s.writeJSON(w, http.StatusInternalServerError, pipeline.FailureResult(time.Since(start)))
		return
	}

	extractionsTotal.WithLabelValues("ok", result.Summary.StrategyUsed).Inc()
	medicationsPerDocument.Observe(float64(result.Summary.TotalMedications))
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}
