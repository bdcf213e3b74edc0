package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/artifacts"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/worker/engine"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Pipeline turns one claimed job into a terminal state plus durably stored
// artifacts. blobs may be nil when storage is unconfigured; artifacts then
// stay local and the job still finalizes.
type Pipeline struct {
	jobs   Store
	eng    engine.Engine
	blobs  artifacts.BlobClient
	cfg    Config
	logger *slog.Logger
}

// NewPipeline creates the per-job execution pipeline.
func NewPipeline(jobs Store, eng engine.Engine, blobs artifacts.BlobClient, cfg Config, logger *slog.Logger) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{jobs: jobs, eng: eng, blobs: blobs, cfg: cfg, logger: logger}
}

// Process runs a claimed job to a terminal status. The claim already moved
// the record to RUNNING; from here the pipeline owns the job and every
// failure path ends in exactly one terminal update.
func (p *Pipeline) Process(ctx context.Context, job *store.Job) Outcome {
	tracer := otel.Tracer("fea-worker")
	ctx, span := tracer.Start(ctx, "process_job",
		trace.WithAttributes(
			attribute.String("job.id", job.ID.String()),
			attribute.String("job.name", job.Name),
			attribute.String("job.test_type", job.Input.TestType),
		),
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
	defer span.End()

	logger := p.logger.With("job_id", job.ID, "job_name", job.Name)
	logger.Info("starting job")

	dir, err := p.prepareWorkspace(job)
	if err != nil {
		span.RecordError(err)
		p.fail(ctx, job, fmt.Sprintf("Workspace preparation failed: %v", err))
		return OutcomeFailed
	}
	defer p.cleanupWorkspace(dir)

	solve, err := p.invoke(ctx, job, dir, engine.ScriptSolve)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			p.fail(ctx, job, fmt.Sprintf("Engine timed out after %s", p.cfg.EngineTimeout))
		} else {
			p.fail(ctx, job, fmt.Sprintf("Engine unreachable: %v", err))
		}
		return OutcomeFailed
	}

	if solve.ExitCode != 0 {
		span.SetAttributes(attribute.Int("engine.exit_code", solve.ExitCode))
		diag := engine.TruncateOutput(solve.Output, p.cfg.MaxDiagnosticLen)
		// Upload whatever the engine produced, for postmortem.
		location := p.tryUpload(ctx, job, dir, store.StatusFailed, "")
		p.fail(ctx, job, fmt.Sprintf("Engine exited with code %d. Diagnostics at %s. Output tail: %s",
			solve.ExitCode, location, diag))
		return OutcomeFailed
	}

	post, outcome := p.postProcess(ctx, job, dir)
	if outcome == OutcomeFailed {
		diag := engine.TruncateOutput(post.Primary.Output, p.cfg.MaxDiagnosticLen)
		location := p.tryUpload(ctx, job, dir, store.StatusFailed, "")
		p.fail(ctx, job, fmt.Sprintf("Primary export %s failed with code %d. Diagnostics at %s. Output tail: %s",
			post.Primary.Script, post.Primary.ExitCode, location, diag))
		return OutcomeFailed
	}

	warning := ""
	if outcome == OutcomeCompletedWithWarning {
		warning = fmt.Sprintf("secondary export %s failed with code %d",
			post.Secondary.Script, post.Secondary.ExitCode)
		logger.Warn("secondary export failed", "script", post.Secondary.Script,
			"exit_code", post.Secondary.ExitCode)
	}

	location, err := p.persist(ctx, job, dir, warning)
	if err != nil {
		span.RecordError(err)
		p.fail(ctx, job, fmt.Sprintf("Artifact upload failed: %v", err))
		return OutcomeFailed
	}

	message := fmt.Sprintf("Simulation success. Artifacts stored at: %s", location)
	if warning != "" {
		message += " (warning: " + warning + ")"
	}
	if _, err := p.jobs.UpdateStatus(ctx, job.ID, store.StatusCompleted, message); err != nil {
		logger.Error("failed to finalize job", "error", err)
	}

	logger.Info("job finished", "outcome", outcome.String(), "location", location)
	return outcome
}

// invoke runs one engine script with the configured hard timeout.
func (p *Pipeline) invoke(ctx context.Context, job *store.Job, dir, script string) (engine.Result, error) {
	invCtx, cancel := context.WithTimeout(ctx, p.cfg.EngineTimeout)
	defer cancel()

	return p.eng.Invoke(invCtx, engine.Invocation{
		JobID:   job.ID.String(),
		WorkDir: dir,
		Script:  script,
	})
}

// postProcess runs the two export phases against the engine output. The
// primary export is canonical: its failure fails the job. The secondary is
// best-effort and only degrades the outcome to a warning.
func (p *Pipeline) postProcess(ctx context.Context, job *store.Job, dir string) (PostProcessResult, Outcome) {
	var result PostProcessResult

	primary, err := p.invoke(ctx, job, dir, engine.ScriptExportFields)
	if err != nil {
		result.Primary = PhaseResult{Script: engine.ScriptExportFields, ExitCode: -1, Output: err.Error()}
		return result, OutcomeFailed
	}
	result.Primary = PhaseResult{
		Script:   engine.ScriptExportFields,
		ExitCode: primary.ExitCode,
		Output:   primary.Output,
	}
	if !result.Primary.Succeeded() {
		return result, OutcomeFailed
	}

	secondary, err := p.invoke(ctx, job, dir, engine.ScriptExportPreview)
	if err != nil {
		result.Secondary = &PhaseResult{Script: engine.ScriptExportPreview, ExitCode: -1, Output: err.Error()}
		return result, OutcomeCompletedWithWarning
	}
	result.Secondary = &PhaseResult{
		Script:   engine.ScriptExportPreview,
		ExitCode: secondary.ExitCode,
		Output:   secondary.Output,
	}
	if !result.Secondary.Succeeded() {
		return result, OutcomeCompletedWithWarning
	}

	return result, OutcomeCompleted
}

// persist uploads the workspace; with no storage configured the artifacts
// stay local and the location says so, matching the operator's setup
// instead of failing a finished simulation.
func (p *Pipeline) persist(ctx context.Context, job *store.Job, dir, warning string) (string, error) {
	if p.blobs == nil {
		p.logger.Warn("blob storage not configured, artifacts retained locally", "dir", dir)
		return "LOCAL_ONLY", nil
	}
	return p.uploadArtifacts(ctx, job, dir, store.StatusCompleted, warning)
}

// tryUpload is the postmortem variant of persist: upload errors are logged
// and folded into a placeholder location, never masking the original
// failure.
func (p *Pipeline) tryUpload(ctx context.Context, job *store.Job, dir string, terminal store.JobStatus, warning string) string {
	if p.blobs == nil {
		return "LOCAL_ONLY"
	}
	location, err := p.uploadArtifacts(ctx, job, dir, terminal, warning)
	if err != nil {
		p.logger.Warn("postmortem artifact upload failed", "job_id", job.ID, "error", err)
		return "UPLOAD_FAILED"
	}
	return location
}

func (p *Pipeline) fail(ctx context.Context, job *store.Job, message string) {
	if _, err := p.jobs.UpdateStatus(ctx, job.ID, store.StatusFailed, message); err != nil {
		p.logger.Error("failed to mark job failed", "job_id", job.ID, "error", err)
	}
}
