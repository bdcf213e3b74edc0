package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"
)

// ClaimNext atomically claims the oldest INITIALIZED job using a single
// conditional transition: the selected row is locked with FOR UPDATE SKIP
// LOCKED and flipped to RUNNING (with the claim log line appended) in the
// same statement. Two workers polling concurrently can never both receive
// the same job.
//
// Returns (nil, nil) when no pending job exists.
func (s *Store) ClaimNext(ctx context.Context) (*store.Job, error) {
	query := fmt.Sprintf(`
		UPDATE fea_jobs
		SET status = $1,
		    last_updated = %s,
		    logs = logs || to_jsonb(
		        '[' || to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"') || '] '
		        || $2::text || ' (status: ' || $1::text || ')'
		    )
		WHERE job_id = (
		    SELECT job_id FROM fea_jobs
		    WHERE status = $3
		    ORDER BY created_at ASC
		    FOR UPDATE SKIP LOCKED
		    LIMIT 1
		)
		RETURNING %s
	`, bumpedTimestamp, bumpedTimestamp, jobColumns)

	row := s.db.QueryRowContext(ctx, query,
		store.StatusRunning,
		"Worker claimed job for FEA execution",
		store.StatusInitialized,
	)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Empty queue is a signal, not an error.
		return nil, nil
	}
	return job, err
}

// CountPending returns the number of INITIALIZED jobs waiting for a worker.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fea_jobs WHERE status = $1", store.StatusInitialized,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
