package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewExecEngine_RequiresCommand(t *testing.T) {
	if _, err := NewExecEngine(nil); err == nil {
		t.Error("expected error for empty command")
	}
}

func TestExecEngine_Success(t *testing.T) {
	eng, err := NewExecEngine([]string{"sh", "-c", "echo ok"})
	if err != nil {
		t.Fatalf("NewExecEngine failed: %v", err)
	}

	res, err := eng.Invoke(context.Background(), Invocation{
		JobID:   "j1",
		WorkDir: t.TempDir(),
		Script:  ScriptSolve,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("got exit code %d, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Output, "ok") {
		t.Errorf("stdout not captured: %q", res.Output)
	}
}

func TestExecEngine_NonzeroExit(t *testing.T) {
	eng, err := NewExecEngine([]string{"sh", "-c", "echo boom >&2; exit 3"})
	if err != nil {
		t.Fatalf("NewExecEngine failed: %v", err)
	}

	res, err := eng.Invoke(context.Background(), Invocation{
		JobID:   "j1",
		WorkDir: t.TempDir(),
		Script:  ScriptSolve,
	})
	if err != nil {
		t.Fatalf("a nonzero exit is a Result, not an error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("got exit code %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Output, "boom") {
		t.Errorf("stderr not captured: %q", res.Output)
	}
}

func TestExecEngine_StartFailure(t *testing.T) {
	eng, err := NewExecEngine([]string{"/nonexistent/solver-binary"})
	if err != nil {
		t.Fatalf("NewExecEngine failed: %v", err)
	}

	_, err = eng.Invoke(context.Background(), Invocation{
		JobID:   "j1",
		WorkDir: t.TempDir(),
		Script:  ScriptSolve,
	})
	if err == nil {
		t.Fatal("expected start failure")
	}
	if !strings.Contains(err.Error(), "engine unreachable") {
		t.Errorf("got %v, want engine unreachable", err)
	}
}

func TestExecEngine_Timeout(t *testing.T) {
	eng, err := NewExecEngine([]string{"sh", "-c", "sleep 5"})
	if err != nil {
		t.Fatalf("NewExecEngine failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = eng.Invoke(ctx, Invocation{
		JobID:   "j1",
		WorkDir: t.TempDir(),
		Script:  ScriptSolve,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}
