package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPEngine talks to the engine bridge service. The bridge exposes POST
// /run for the solver and POST /postprocess for export scripts; it maps
// the underlying process exit code onto the HTTP status and returns the
// captured streams as JSON.
type HTTPEngine struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPEngine creates an engine client for the given bridge URL.
// The per-invocation timeout comes from the caller's context, so the
// underlying client carries none of its own.
func NewHTTPEngine(baseURL string) *HTTPEngine {
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &HTTPEngine{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type bridgeRequest struct {
	JobID  string `json:"job_id"`
	Script string `json:"script,omitempty"`
}

type bridgeResponse struct {
	Status  string `json:"status"`
	Output  string `json:"output"`
	Stderr  string `json:"stderr"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// Invoke implements Engine over the bridge protocol. A non-2xx reply is a
// normal engine failure (exit code recorded in the Result); only transport
// problems and deadline expiry are returned as errors.
func (e *HTTPEngine) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	endpoint := e.baseURL + "/run"
	if inv.Script != ScriptSolve {
		endpoint = e.baseURL + "/postprocess"
	}

	body, err := json.Marshal(bridgeRequest{JobID: inv.JobID, Script: inv.Script})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, context.DeadlineExceeded
		}
		return Result{}, fmt.Errorf("engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var parsed bridgeResponse
	if len(raw) > 0 {
		// Keep the raw payload when the bridge replies with non-JSON.
		if err := json.Unmarshal(raw, &parsed); err != nil {
			parsed = bridgeResponse{Message: string(raw)}
		}
	}

	if resp.StatusCode == http.StatusOK {
		return Result{ExitCode: 0, Output: parsed.Output}, nil
	}

	output := parsed.Stderr
	if output == "" {
		output = firstNonEmpty(parsed.Message, parsed.Details, string(raw))
	}
	return Result{ExitCode: 1, Output: fmt.Sprintf("engine returned status %d: %s", resp.StatusCode, output)}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
