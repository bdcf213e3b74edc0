package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/artifacts"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/pkg/api"

	"github.com/google/uuid"
)

// ArtifactURLs handles GET /jobs/{id}/artifacts.
// Returns signed read-only URLs for the job's fixed artifact set. The
// optional ttl query parameter overrides the expiry, in seconds.
func (h *Handlers) ArtifactURLs(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	var ttl time.Duration
	if raw := r.URL.Query().Get("ttl"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			h.httpError(w, "ttl must be a positive integer of seconds", http.StatusBadRequest)
			return
		}
		ttl = time.Duration(seconds) * time.Second
	}

	urls, err := h.artifacts.ArtifactURLs(r.Context(), jobID, ttl)
	if err != nil {
		switch {
		case errors.Is(err, artifacts.ErrStorageNotConfigured):
			h.httpError(w, "Artifact storage is not configured", http.StatusServiceUnavailable)
		case errors.Is(err, artifacts.ErrStorageBackend):
			h.logger.Error("artifact signing failed", "job_id", jobID, "error", err)
			h.httpError(w, "Artifact storage backend error", http.StatusBadGateway)
		default:
			h.storeError(w, err)
		}
		return
	}

	h.respondJson(w, http.StatusOK, api.ArtifactURLsResponse{
		JobID:            jobID.String(),
		URLs:             urls.URLs,
		ExpiresInSeconds: int(urls.ExpiresIn / time.Second),
	})
}
