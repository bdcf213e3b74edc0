package worker

import (
	"context"
	"log/slog"
	"time"
)

// Agent runs the worker pull-loop: claim one pending job, run it through
// the pipeline, repeat. Polling is a fixed interval with no backoff; the
// claim is cheap and a predictable pickup latency matters more than idle
// query savings.
type Agent struct {
	queue    Store
	pipeline *Pipeline
	interval time.Duration
	logger   *slog.Logger
	done     chan struct{}
}

// NewAgent creates a worker agent polling at the given fixed interval.
func NewAgent(queue Store, pipeline *Pipeline, interval time.Duration, logger *slog.Logger) *Agent {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Agent{
		queue:    queue,
		pipeline: pipeline,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Run starts the pull-loop. It blocks until the context is cancelled.
// On shutdown it stops claiming new work and lets the in-flight job
// finish before returning.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("worker agent starting", "poll_interval", a.interval)
	defer close(a.done)

	for {
		job, err := a.queue.ClaimNext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				a.logger.Info("worker agent stopping")
				return ctx.Err()
			}
			a.logger.Error("claim failed", "error", err)
		} else if job != nil {
			// Process under context.Background so a SIGTERM drains the
			// in-flight job instead of abandoning it mid-run.
			a.pipeline.Process(context.Background(), job)
			// Drain the queue before sleeping again.
			continue
		}

		select {
		case <-ctx.Done():
			a.logger.Info("worker agent stopping")
			return ctx.Err()
		case <-time.After(a.interval):
		}
	}
}

// Done returns a channel that is closed once the agent has fully stopped.
func (a *Agent) Done() <-chan struct{} {
	return a.done
}
