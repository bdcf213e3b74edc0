package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/pkg/api"

	"github.com/google/uuid"
)

// defaultListLimit applies when the caller does not specify a page size.
const defaultListLimit = 20

// CreateJob handles POST /jobs.
// It validates the simulation configuration and persists a new job record
// in INITIALIZED state, making it visible to polling workers.
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.JobName == "" {
		h.httpError(w, "job_name is required", http.StatusBadRequest)
		return
	}
	if len(req.Input) == 0 {
		h.httpError(w, "input_parameters is required", http.StatusBadRequest)
		return
	}

	var input store.SimulationInput
	if err := json.Unmarshal(req.Input, &input); err != nil {
		h.httpError(w, "Invalid input_parameters document", http.StatusBadRequest)
		return
	}
	if err := store.ValidateInput(&input); err != nil {
		h.httpError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	job, err := h.store.CreateJob(ctx, req.JobName, &input)
	if err != nil {
		h.storeError(w, err)
		return
	}

	h.respondJson(w, http.StatusCreated, api.CreateJobResponse{
		JobID:  job.ID.String(),
		Status: string(job.Status),
	})
}

// GetJob handles GET /jobs/{id}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		h.storeError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, toJobResponse(job))
}

// UpdateStatus handles PUT /jobs/{id}/status.
// Transitions are not validated against a state graph; the caller owns
// ordering. The status value itself must belong to the fixed vocabulary.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	var req api.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status := store.JobStatus(req.Status)
	if !status.Valid() {
		h.httpError(w, "Unknown status value", http.StatusBadRequest)
		return
	}
	if req.LogMessage == "" {
		h.httpError(w, "log_message is required", http.StatusBadRequest)
		return
	}

	job, err := h.store.UpdateStatus(r.Context(), jobID, status, req.LogMessage)
	if err != nil {
		h.storeError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, toJobResponse(job))
}

// ListJobs handles GET /jobs.
// Supports status filtering and opaque keyset cursors; pages are ordered
// newest first by last activity.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  defaultListLimit,
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > store.MaxListLimit {
			h.httpError(w, "limit must be an integer between 1 and 100", http.StatusBadRequest)
			return
		}
		opts.Limit = limit
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := store.JobStatus(raw)
		if !status.Valid() {
			h.httpError(w, "Unknown status value", http.StatusBadRequest)
			return
		}
		opts.Status = &status
	}

	page, err := h.store.ListJobs(r.Context(), opts)
	if err != nil {
		h.storeError(w, err)
		return
	}

	resp := api.ListJobsResponse{
		Jobs:       make([]api.JobResponse, 0, len(page.Jobs)),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}
	for _, job := range page.Jobs {
		resp.Jobs = append(resp.Jobs, toJobResponse(job))
	}

	h.respondJson(w, http.StatusOK, resp)
}
