// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and Controller.
package api

import (
	"encoding/json"
	"time"
)

// CreateJobRequest is the request body for submitting a new simulation job.
// Input carries the full simulation configuration document; it is
// validated server-side before the record is created.
type CreateJobRequest struct {
	JobName string          `json:"job_name"`
	Input   json.RawMessage `json:"input_parameters"`
}

// CreateJobResponse is the response body after submitting a job.
type CreateJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobResponse represents a job record in API responses.
type JobResponse struct {
	JobID       string          `json:"job_id"`
	JobName     string          `json:"job_name"`
	Status      string          `json:"status"`
	LastUpdated time.Time       `json:"last_updated"`
	Input       json.RawMessage `json:"input_parameters"`
	Logs        []string        `json:"logs"`
	CreatedAt   time.Time       `json:"created_at"`
}

// UpdateStatusRequest is the request body for a status transition. The
// log message is appended to the job's execution log alongside the
// transition.
type UpdateStatusRequest struct {
	Status     string `json:"status"`
	LogMessage string `json:"log_message"`
}

// ListJobsResponse is one page of the job listing. NextCursor is opaque;
// pass it back unchanged to fetch the next page. It is only present when
// HasMore is true.
type ListJobsResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ArtifactURLsResponse carries signed read-only URLs for a job's stored
// outputs. Every URL shares the same expiry.
type ArtifactURLsResponse struct {
	JobID            string            `json:"job_id"`
	URLs             map[string]string `json:"urls"`
	ExpiresInSeconds int               `json:"expires_in_seconds"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
