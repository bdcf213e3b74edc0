package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"

	"github.com/google/uuid"
)

// claimOnceStore hands out one pending job, then reports an empty queue.
type claimOnceStore struct {
	mu      sync.Mutex
	job     *store.Job
	updates []statusUpdate
}

func (s *claimOnceStore) ClaimNext(ctx context.Context) (*store.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.job
	s.job = nil
	return job, nil
}

func (s *claimOnceStore) UpdateStatus(ctx context.Context, id uuid.UUID, status store.JobStatus, message string) (*store.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, statusUpdate{status: status, message: message})
	return &store.Job{ID: id, Status: status}, nil
}

func (s *claimOnceStore) finalStatus() (store.JobStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) == 0 {
		return "", false
	}
	return s.updates[len(s.updates)-1].status, true
}

func TestAgent_ProcessesClaimedJobAndStops(t *testing.T) {
	jobs := &claimOnceStore{job: testJob()}
	pipeline := newTestPipeline(t, jobs, allGreen(), &fakeBlob{}, Config{})
	agent := NewAgent(jobs, pipeline, 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go agent.Run(ctx)

	deadline := time.After(2 * time.Second)
	for {
		if status, ok := jobs.finalStatus(); ok && status.Terminal() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("job was never processed")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-agent.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("agent did not stop after cancellation")
	}

	status, _ := jobs.finalStatus()
	if status != store.StatusCompleted {
		t.Errorf("got final status %s, want COMPLETED", status)
	}
}

func TestAgent_StopsOnImmediateCancel(t *testing.T) {
	jobs := &claimOnceStore{}
	pipeline := newTestPipeline(t, jobs, allGreen(), &fakeBlob{}, Config{})
	agent := NewAgent(jobs, pipeline, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- agent.Run(ctx) }()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("agent did not honor cancellation")
	}
}
