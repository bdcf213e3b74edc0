// Package engine abstracts the external FEA compute engine. The contract
// is deliberately thin: an invocation carries a job-scoped working
// directory and a driver script; the engine terminates with an exit code
// plus captured text streams.
package engine

import "context"

// Driver scripts staged into or already present in the job workspace.
// Solve is the simulation itself; ExportFields is the mandatory primary
// post-processing export (mesh + field data); ExportPreview is the
// best-effort secondary export (preview image, GLB mesh).
const (
	ScriptSolve         = "simulation_runner.py"
	ScriptExportFields  = "export_mesh_fields.py"
	ScriptExportPreview = "visualizer_export.py"
)

// Invocation describes one synchronous engine call.
type Invocation struct {
	JobID   string
	WorkDir string
	Script  string
}

// Result is the outcome of an invocation that reached the engine.
// Transport failures (unreachable engine, timeout) surface as errors from
// Invoke instead.
type Result struct {
	ExitCode int
	Output   string
}

// Engine executes driver scripts against a job workspace.
type Engine interface {
	// Invoke runs the script synchronously. The caller bounds the call
	// with a context deadline; there is no other cancellation.
	Invoke(ctx context.Context, inv Invocation) (Result, error)
}

// TruncateOutput keeps the tail of captured diagnostics, bounding the
// payload recorded into job state.
func TruncateOutput(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
