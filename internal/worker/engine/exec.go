package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecEngine runs the engine as a local process in the job workspace.
// Primarily used for development and for deployments where the solver is
// installed next to the worker instead of behind the HTTP bridge.
type ExecEngine struct {
	// command is the solver launcher, e.g. ["abaqus", "cae", "-noGUI"].
	// The driver script name is appended per invocation.
	command []string
}

// NewExecEngine creates a process-based engine. command must name the
// solver executable and any fixed arguments.
func NewExecEngine(command []string) (*ExecEngine, error) {
	if len(command) == 0 {
		return nil, errors.New("exec engine requires a non-empty command")
	}
	return &ExecEngine{command: command}, nil
}

// Invoke runs the solver synchronously in the invocation's working
// directory with combined stdout/stderr capture. Deadline expiry kills the
// process and surfaces as context.DeadlineExceeded.
func (e *ExecEngine) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	args := append(append([]string{}, e.command[1:]...), inv.Script)
	cmd := exec.CommandContext(ctx, e.command[0], args...)
	cmd.Dir = inv.WorkDir

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return Result{}, context.DeadlineExceeded
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Output: combined.String()}, nil
		}
		// Could not start at all; treat like an unreachable engine.
		return Result{}, fmt.Errorf("engine unreachable: %w", err)
	}

	return Result{ExitCode: 0, Output: combined.String()}, nil
}

// String describes the configured launcher, for startup logging.
func (e *ExecEngine) String() string {
	return strings.Join(e.command, " ")
}
