package store

import "context"

// Queue is the dispatch side of the job table. There is no separate queue
// structure; the table's INITIALIZED rows are the queue.
type Queue interface {
	// ClaimNext atomically transitions the oldest INITIALIZED job to
	// RUNNING and returns it. Returns (nil, nil) when no job is pending.
	// Concurrent callers never receive the same job.
	ClaimNext(ctx context.Context) (*Job, error)

	// CountPending reports the number of jobs waiting to be claimed.
	CountPending(ctx context.Context) (int64, error)
}
