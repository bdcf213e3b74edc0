// Package worker contains the worker-side execution pipeline: poll, claim,
// run the engine, post-process, persist artifacts, finalize status.
package worker

import (
	"context"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"

	"github.com/google/uuid"
)

// Store is the subset of the job store a worker needs. Exactly one worker
// owns a job after the atomic claim, so status and log updates for that
// job are totally ordered.
type Store interface {
	ClaimNext(ctx context.Context) (*store.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status store.JobStatus, logMessage string) (*store.Job, error)
}

// Outcome classifies a finished pipeline run. A failed secondary export
// degrades the outcome to a warning instead of failing the job, and must
// stay structurally distinct from both full success and failure.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCompletedWithWarning
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCompletedWithWarning:
		return "completed_with_warning"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// PhaseResult captures one post-processing phase independently.
type PhaseResult struct {
	Script   string
	ExitCode int
	Output   string
}

// Succeeded reports whether the phase exited cleanly.
func (p PhaseResult) Succeeded() bool {
	return p.ExitCode == 0
}

// PostProcessResult is the two-phase export result: the primary export is
// the canonical artifact and mandatory; the secondary is best-effort and
// may be absent when the pipeline never reached it.
type PostProcessResult struct {
	Primary   PhaseResult
	Secondary *PhaseResult
}

// Config holds worker pipeline settings, constructed once at process
// start and passed explicitly.
type Config struct {
	// WorkDirRoot is the parent of per-job private working directories.
	WorkDirRoot string

	// RunnerScript is the fixed driver script staged into every job
	// workspace for the engine. Empty disables staging.
	RunnerScript string

	// EngineTimeout bounds one synchronous engine invocation.
	EngineTimeout time.Duration

	// MaxDiagnosticLen bounds captured engine output recorded into job
	// state; only the tail is kept.
	MaxDiagnosticLen int

	// RetainWorkdir preserves the local working directory after the job
	// finishes, for debugging. Default is to delete it.
	RetainWorkdir bool

	// PollInterval is the fixed idle sleep between empty claims.
	PollInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.EngineTimeout <= 0 {
		c.EngineTimeout = 1800 * time.Second
	}
	if c.MaxDiagnosticLen <= 0 {
		c.MaxDiagnosticLen = 10000
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.WorkDirRoot == "" {
		c.WorkDirRoot = "jobs"
	}
}
