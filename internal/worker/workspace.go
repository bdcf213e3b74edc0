package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"
)

// resultsFile is the conventional physics-results file the solver writes
// into the workspace; its contents are folded into the summary document.
const resultsFile = "results.json"

// prepareWorkspace materializes a private working directory for the job:
// the serialized configuration the engine expects plus the staged driver
// script.
func (p *Pipeline) prepareWorkspace(job *store.Job) (string, error) {
	dir := filepath.Join(p.cfg.WorkDirRoot, job.ID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create job directory: %w", err)
	}

	configJSON, err := json.MarshalIndent(job.Input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize job configuration: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), configJSON, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config.json: %w", err)
	}

	if p.cfg.RunnerScript != "" {
		script, err := os.ReadFile(p.cfg.RunnerScript)
		if err != nil {
			return "", fmt.Errorf("failed to read driver script: %w", err)
		}
		target := filepath.Join(dir, filepath.Base(p.cfg.RunnerScript))
		if err := os.WriteFile(target, script, 0o644); err != nil {
			return "", fmt.Errorf("failed to stage driver script: %w", err)
		}
	}

	return dir, nil
}

// cleanupWorkspace releases the local working directory unless the
// operator chose to retain it.
func (p *Pipeline) cleanupWorkspace(dir string) {
	if p.cfg.RetainWorkdir || dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn("failed to remove job workspace", "dir", dir, "error", err)
	}
}

// jobSummary is the generated summary document uploaded next to the
// artifacts.
type jobSummary struct {
	JobID          string                 `json:"job_id"`
	CompletionTime time.Time              `json:"completion_time"`
	Status         string                 `json:"status"`
	PhysicsResults map[string]interface{} `json:"physics_results"`
	InputSummary   map[string]string      `json:"input_summary"`
	Manifest       []string               `json:"artifact_manifest"`
	Warning        string                 `json:"warning,omitempty"`
}

// uploadArtifacts persists every file in the workspace under the job's
// data/ prefix, then generates and uploads the summary document. Returns
// the storage location recorded into the final log line.
func (p *Pipeline) uploadArtifacts(ctx context.Context, job *store.Job, dir string, terminal store.JobStatus, warning string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read job directory: %w", err)
	}

	var manifest []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", entry.Name(), err)
		}

		key := fmt.Sprintf("%s/data/%s", job.ID, entry.Name())
		err = p.blobs.Upload(ctx, key, f, "application/octet-stream")
		f.Close()
		if err != nil {
			return "", err
		}
		manifest = append(manifest, entry.Name())
	}

	summary := jobSummary{
		JobID:          job.ID.String(),
		CompletionTime: time.Now().UTC(),
		Status:         string(terminal),
		PhysicsResults: p.parsePhysicsResults(dir),
		InputSummary: map[string]string{
			"test_type": job.Input.TestType,
			"material":  job.Input.Material.Name,
		},
		Manifest: manifest,
		Warning:  warning,
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize summary: %w", err)
	}
	summaryKey := fmt.Sprintf("%s/summary.json", job.ID)
	if err := p.blobs.Upload(ctx, summaryKey, bytes.NewReader(summaryJSON), "application/json"); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", p.blobs.BaseURL(), job.ID), nil
}

// parsePhysicsResults reads the conventional results file if the solver
// produced one. Best effort: a missing or malformed file yields an empty
// map.
func (p *Pipeline) parsePhysicsResults(dir string) map[string]interface{} {
	metrics := map[string]interface{}{}
	raw, err := os.ReadFile(filepath.Join(dir, resultsFile))
	if err != nil {
		return metrics
	}
	if err := json.Unmarshal(raw, &metrics); err != nil {
		p.logger.Warn("could not parse results file", "file", resultsFile, "error", err)
		return map[string]interface{}{}
	}
	return metrics
}
