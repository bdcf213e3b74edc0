package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/worker/engine"

	"github.com/google/uuid"
)

type statusUpdate struct {
	status  store.JobStatus
	message string
}

type fakeStore struct {
	updates []statusUpdate
}

func (f *fakeStore) ClaimNext(ctx context.Context) (*store.Job, error) {
	return nil, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status store.JobStatus, message string) (*store.Job, error) {
	f.updates = append(f.updates, statusUpdate{status: status, message: message})
	return &store.Job{ID: id, Status: status}, nil
}

func (f *fakeStore) last(t *testing.T) statusUpdate {
	t.Helper()
	if len(f.updates) == 0 {
		t.Fatal("no status updates recorded")
	}
	return f.updates[len(f.updates)-1]
}

// fakeEngine returns scripted results per driver script.
type fakeEngine struct {
	results map[string]engine.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeEngine) Invoke(ctx context.Context, inv engine.Invocation) (engine.Result, error) {
	f.calls = append(f.calls, inv.Script)
	if err, ok := f.errs[inv.Script]; ok {
		return engine.Result{}, err
	}
	return f.results[inv.Script], nil
}

func allGreen() *fakeEngine {
	return &fakeEngine{results: map[string]engine.Result{
		engine.ScriptSolve:         {ExitCode: 0, Output: "solved"},
		engine.ScriptExportFields:  {ExitCode: 0, Output: "exported"},
		engine.ScriptExportPreview: {ExitCode: 0, Output: "rendered"},
	}}
}

type fakeBlob struct {
	keys       []string
	failUpload bool
}

func (f *fakeBlob) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if f.failUpload {
		return errors.New("bucket rejected write")
	}
	io.Copy(io.Discard, body)
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeBlob) SignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func (f *fakeBlob) BaseURL() string {
	return "s3://fea-artifacts"
}

func testJob() *store.Job {
	return &store.Job{
		ID:     uuid.New(),
		Name:   "beam-study",
		Status: store.StatusRunning,
		Input: store.SimulationInput{
			ModelName: "cantilever_steel",
			TestType:  "CantileverBeam",
			Material:  store.Material{Name: "steel", YoungsModulusPa: 210e9, PoissonRatio: 0.3},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, jobs Store, eng engine.Engine, blobs *fakeBlob, cfg Config) *Pipeline {
	t.Helper()
	if cfg.WorkDirRoot == "" {
		cfg.WorkDirRoot = t.TempDir()
	}
	if blobs == nil {
		return NewPipeline(jobs, eng, nil, cfg, discardLogger())
	}
	return NewPipeline(jobs, eng, blobs, cfg, discardLogger())
}

func TestProcess_Success(t *testing.T) {
	jobs := &fakeStore{}
	eng := allGreen()
	blobs := &fakeBlob{}
	job := testJob()

	p := newTestPipeline(t, jobs, eng, blobs, Config{})
	outcome := p.Process(context.Background(), job)

	if outcome != OutcomeCompleted {
		t.Fatalf("got outcome %s, want completed", outcome)
	}

	final := jobs.last(t)
	if final.status != store.StatusCompleted {
		t.Errorf("got status %s, want COMPLETED", final.status)
	}
	want := fmt.Sprintf("Simulation success. Artifacts stored at: s3://fea-artifacts/%s", job.ID)
	if final.message != want {
		t.Errorf("got message %q, want %q", final.message, want)
	}

	if len(eng.calls) != 3 {
		t.Fatalf("got %d engine calls, want solve + 2 exports", len(eng.calls))
	}
	if eng.calls[0] != engine.ScriptSolve || eng.calls[1] != engine.ScriptExportFields || eng.calls[2] != engine.ScriptExportPreview {
		t.Errorf("wrong script order: %v", eng.calls)
	}

	var haveSummary, haveConfig bool
	for _, key := range blobs.keys {
		if key == fmt.Sprintf("%s/summary.json", job.ID) {
			haveSummary = true
		}
		if key == fmt.Sprintf("%s/data/config.json", job.ID) {
			haveConfig = true
		}
	}
	if !haveSummary {
		t.Errorf("summary.json not uploaded: %v", blobs.keys)
	}
	if !haveConfig {
		t.Errorf("workspace files not uploaded under data/: %v", blobs.keys)
	}
}

func TestProcess_EngineExitFailure(t *testing.T) {
	jobs := &fakeStore{}
	eng := &fakeEngine{results: map[string]engine.Result{
		engine.ScriptSolve: {ExitCode: 2, Output: strings.Repeat("x", 200) + " FATAL: diverged"},
	}}
	job := testJob()

	p := newTestPipeline(t, jobs, eng, &fakeBlob{}, Config{MaxDiagnosticLen: 50})
	if outcome := p.Process(context.Background(), job); outcome != OutcomeFailed {
		t.Fatalf("got outcome %s, want failed", outcome)
	}

	final := jobs.last(t)
	if final.status != store.StatusFailed {
		t.Errorf("got status %s, want FAILED", final.status)
	}
	if !strings.Contains(final.message, "Engine exited with code 2") {
		t.Errorf("exit code missing from message: %q", final.message)
	}
	if !strings.Contains(final.message, "FATAL: diverged") {
		t.Errorf("diagnostic tail lost: %q", final.message)
	}
	if strings.Contains(final.message, strings.Repeat("x", 200)) {
		t.Errorf("diagnostics were not truncated: %d chars", len(final.message))
	}

	// Export phases must not run after a failed solve.
	if len(eng.calls) != 1 {
		t.Errorf("got %d engine calls, want 1: %v", len(eng.calls), eng.calls)
	}
}

func TestProcess_EngineTimeout(t *testing.T) {
	jobs := &fakeStore{}
	eng := &fakeEngine{errs: map[string]error{
		engine.ScriptSolve: context.DeadlineExceeded,
	}}

	p := newTestPipeline(t, jobs, eng, &fakeBlob{}, Config{EngineTimeout: 42 * time.Second})
	if outcome := p.Process(context.Background(), testJob()); outcome != OutcomeFailed {
		t.Fatal("timeout must fail the job")
	}

	final := jobs.last(t)
	if final.status != store.StatusFailed {
		t.Errorf("got status %s, want FAILED", final.status)
	}
	if !strings.Contains(final.message, "Engine timed out after 42s") {
		t.Errorf("got message %q, want timeout duration", final.message)
	}
}

func TestProcess_EngineUnreachable(t *testing.T) {
	jobs := &fakeStore{}
	eng := &fakeEngine{errs: map[string]error{
		engine.ScriptSolve: errors.New("engine unreachable: connection refused"),
	}}

	p := newTestPipeline(t, jobs, eng, &fakeBlob{}, Config{})
	if outcome := p.Process(context.Background(), testJob()); outcome != OutcomeFailed {
		t.Fatal("unreachable engine must fail the job")
	}

	final := jobs.last(t)
	if !strings.Contains(final.message, "Engine unreachable") {
		t.Errorf("got message %q, want unreachable", final.message)
	}
}

func TestProcess_PrimaryExportFailure(t *testing.T) {
	jobs := &fakeStore{}
	eng := &fakeEngine{results: map[string]engine.Result{
		engine.ScriptSolve:        {ExitCode: 0, Output: "solved"},
		engine.ScriptExportFields: {ExitCode: 1, Output: "no odb found"},
	}}

	p := newTestPipeline(t, jobs, eng, &fakeBlob{}, Config{})
	if outcome := p.Process(context.Background(), testJob()); outcome != OutcomeFailed {
		t.Fatal("primary export failure must fail the job")
	}

	final := jobs.last(t)
	if final.status != store.StatusFailed {
		t.Errorf("got status %s, want FAILED", final.status)
	}
	if !strings.Contains(final.message, engine.ScriptExportFields) {
		t.Errorf("failing script not named: %q", final.message)
	}

	// The secondary export must not run after a failed primary.
	for _, call := range eng.calls {
		if call == engine.ScriptExportPreview {
			t.Error("secondary export ran after primary failure")
		}
	}
}

func TestProcess_SecondaryExportFailureIsAWarning(t *testing.T) {
	jobs := &fakeStore{}
	eng := &fakeEngine{results: map[string]engine.Result{
		engine.ScriptSolve:         {ExitCode: 0, Output: "solved"},
		engine.ScriptExportFields:  {ExitCode: 0, Output: "exported"},
		engine.ScriptExportPreview: {ExitCode: 1, Output: "no display"},
	}}

	p := newTestPipeline(t, jobs, eng, &fakeBlob{}, Config{})
	outcome := p.Process(context.Background(), testJob())
	if outcome != OutcomeCompletedWithWarning {
		t.Fatalf("got outcome %s, want completed_with_warning", outcome)
	}

	final := jobs.last(t)
	if final.status != store.StatusCompleted {
		t.Errorf("secondary failure must still complete the job, got %s", final.status)
	}
	if !strings.Contains(final.message, "warning") {
		t.Errorf("warning not recorded: %q", final.message)
	}
}

func TestProcess_NoStorageConfigured(t *testing.T) {
	jobs := &fakeStore{}

	p := newTestPipeline(t, jobs, allGreen(), nil, Config{})
	if outcome := p.Process(context.Background(), testJob()); outcome != OutcomeCompleted {
		t.Fatal("missing storage must not fail a successful run")
	}

	final := jobs.last(t)
	if final.status != store.StatusCompleted {
		t.Errorf("got status %s, want COMPLETED", final.status)
	}
	if !strings.Contains(final.message, "LOCAL_ONLY") {
		t.Errorf("got message %q, want LOCAL_ONLY location", final.message)
	}
}

func TestProcess_UploadFailureFailsTheJob(t *testing.T) {
	jobs := &fakeStore{}

	p := newTestPipeline(t, jobs, allGreen(), &fakeBlob{failUpload: true}, Config{})
	if outcome := p.Process(context.Background(), testJob()); outcome != OutcomeFailed {
		t.Fatal("configured storage rejecting uploads must fail the job")
	}

	final := jobs.last(t)
	if final.status != store.StatusFailed {
		t.Errorf("got status %s, want FAILED", final.status)
	}
	if !strings.Contains(final.message, "Artifact upload failed") {
		t.Errorf("got message %q", final.message)
	}
}

func TestProcess_WorkspaceCleanup(t *testing.T) {
	root := t.TempDir()
	job := testJob()

	p := newTestPipeline(t, &fakeStore{}, allGreen(), &fakeBlob{}, Config{WorkDirRoot: root})
	p.Process(context.Background(), job)

	if _, err := os.Stat(root + "/" + job.ID.String()); !os.IsNotExist(err) {
		t.Error("workspace should be removed after the run")
	}
}

func TestProcess_RetainWorkdir(t *testing.T) {
	root := t.TempDir()
	job := testJob()

	p := newTestPipeline(t, &fakeStore{}, allGreen(), &fakeBlob{}, Config{WorkDirRoot: root, RetainWorkdir: true})
	p.Process(context.Background(), job)

	dir := root + "/" + job.ID.String()
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("workspace should be retained: %v", err)
	}

	// config.json must hold the job's input verbatim.
	raw, err := os.ReadFile(dir + "/config.json")
	if err != nil {
		t.Fatalf("config.json missing: %v", err)
	}
	var got store.SimulationInput
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("config.json not valid JSON: %v", err)
	}
	if got.ModelName != job.Input.ModelName {
		t.Errorf("got model %q, want %q", got.ModelName, job.Input.ModelName)
	}
}
