package store

import (
	"context"

	"github.com/google/uuid"
)

// JobStore defines persistence operations over FEA job records.
type JobStore interface {
	// CreateJob persists a new job in INITIALIZED state with an empty log
	// sequence. The input must already be validated.
	CreateJob(ctx context.Context, name string, input *SimulationInput) (*Job, error)

	// GetJob returns the job with the given ID, or ErrNotFound.
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)

	// UpdateStatus sets the job's status, strictly advances last_updated,
	// and appends one formatted log line. Returns the updated record, or
	// ErrNotFound.
	UpdateStatus(ctx context.Context, id uuid.UUID, status JobStatus, logMessage string) (*Job, error)

	// ListJobs returns one page of jobs, newest first, optionally filtered
	// by status. Invalid cursors yield ErrInvalidCursor.
	ListJobs(ctx context.Context, opts ListOptions) (*JobPage, error)
}
