// Package server exposes the evaluation engine over HTTP with a small
// embedded form UI. The server retains the most recent result for
// re-display; the engine itself stays stateless.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/benkpearse/TLrevprojection/internal/config"
	"github.com/benkpearse/TLrevprojection/internal/evaluate"
	"github.com/benkpearse/TLrevprojection/pkg/constants"
	"github.com/benkpearse/TLrevprojection/pkg/stats"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string

	mu         sync.Mutex
	lastResult *evaluateResponse
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// evaluation API.
func NewHandler(logger *zap.Logger, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxRequestSize: maxRequestSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Evaluation API endpoint
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)

	// Last computed result, retained for re-display
	mux.HandleFunc("/api/result", h.handleResult)

	// Reset back to the empty state
	mux.HandleFunc("/api/reset", h.handleReset)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type evaluateRequest struct {
	Experiment config.ExperimentConfig `json:"experiment"`
	Forecast   config.ForecastConfig   `json:"forecast"`
}

type evaluateResponse struct {
	Result   *evaluate.Result `json:"result"`
	Warnings []string         `json:"warnings,omitempty"`
	Duration string           `json:"duration"`
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	}

	var payload evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	conf := config.Configuration{
		Experiment: payload.Experiment,
		Forecast:   payload.Forecast,
	}
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	warnings := conf.ValidateConfiguration()

	result, err := evaluate.Evaluate(h.logger, evaluate.FromConfiguration(conf))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, stats.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		h.respondError(w, status, err.Error())
		return
	}

	response := &evaluateResponse{
		Result:   result,
		Warnings: warnings,
		Duration: time.Since(start).String(),
	}

	h.mu.Lock()
	h.lastResult = response
	h.mu.Unlock()

	h.logger.Info("evaluation served",
		zap.String("op", "server.handleEvaluate"),
		zap.String("recommendation", string(result.Recommendation)),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	last := h.lastResult
	h.mu.Unlock()

	if last == nil {
		h.respondError(w, http.StatusNotFound, "no evaluation has been run yet")
		return
	}
	h.writeJSON(w, http.StatusOK, last)
}

func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	h.lastResult = nil
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
