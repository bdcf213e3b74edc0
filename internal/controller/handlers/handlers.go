// Package handlers contains HTTP handlers for the controller API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/artifacts"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/pkg/api"
)

// Store combines the store interfaces the controller needs.
type Store interface {
	store.JobStore
	store.Queue
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store     Store
	artifacts *artifacts.Service
	logger    *slog.Logger
}

// New creates a new Handlers instance with the given dependencies.
func New(s Store, arts *artifacts.Service, logger *slog.Logger) *Handlers {
	return &Handlers{store: s, artifacts: arts, logger: logger}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// storeError maps store-layer failures onto consistent HTTP responses.
func (h *Handlers) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.httpError(w, "Job not found", http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidCursor):
		h.httpError(w, "Invalid pagination cursor", http.StatusBadRequest)
	case errors.Is(err, store.ErrValidation):
		h.httpError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("store error", "error", err)
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
	}
}

// toJobResponse converts a store record into its API representation.
func toJobResponse(job *store.Job) api.JobResponse {
	input, _ := json.Marshal(job.Input)
	return api.JobResponse{
		JobID:       job.ID.String(),
		JobName:     job.Name,
		Status:      string(job.Status),
		LastUpdated: job.LastUpdated,
		Input:       input,
		Logs:        job.Logs,
		CreatedAt:   job.CreatedAt,
	}
}
