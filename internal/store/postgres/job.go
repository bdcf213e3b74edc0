package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"

	"github.com/google/uuid"
)

const jobColumns = "job_id, job_name, status, last_updated, input_parameters, logs, created_at"

// bumpedTimestamp strictly advances last_updated on every status mutation,
// even when two updates land within the clock resolution. last_updated is
// the pagination sort key, so ties with itself are not allowed.
const bumpedTimestamp = "GREATEST(clock_timestamp(), last_updated + interval '1 microsecond')"

// CreateJob inserts a new job record. Status is forced to INITIALIZED and
// the log sequence starts empty; the configuration is serialized verbatim.
func (s *Store) CreateJob(ctx context.Context, name string, input *store.SimulationInput) (*store.Job, error) {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize input parameters: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO fea_jobs (job_id, job_name, status, input_parameters, logs)
		VALUES ($1, $2, $3, $4, '[]'::jsonb)
		RETURNING %s
	`, jobColumns)

	row := s.db.QueryRowContext(ctx, query, uuid.New(), name, store.StatusInitialized, inputJSON)
	return scanJob(row)
}

// GetJob returns a job by its ID, or store.ErrNotFound.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*store.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM fea_jobs WHERE job_id = $1", jobColumns)

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return job, err
}

// UpdateStatus atomically sets the status, strictly advances last_updated,
// and appends exactly one formatted log line carrying the timestamp, the
// message, and the new status. The store does not validate transition
// edges; ordering is the claiming worker's protocol.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status store.JobStatus, logMessage string) (*store.Job, error) {
	query := fmt.Sprintf(`
		UPDATE fea_jobs
		SET status = $2,
		    last_updated = %s,
		    logs = logs || to_jsonb(
		        '[' || to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"') || '] '
		        || $3::text || ' (status: ' || $2::text || ')'
		    )
		WHERE job_id = $1
		RETURNING %s
	`, bumpedTimestamp, bumpedTimestamp, jobColumns)

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id, status, logMessage))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return job, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*store.Job, error) {
	var (
		job       store.Job
		inputJSON []byte
		logsJSON  []byte
		updated   time.Time
		created   time.Time
	)

	err := row.Scan(&job.ID, &job.Name, &job.Status, &updated, &inputJSON, &logsJSON, &created)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(inputJSON, &job.Input); err != nil {
		return nil, fmt.Errorf("failed to decode input parameters: %w", err)
	}
	job.Logs = []string{}
	if len(logsJSON) > 0 {
		if err := json.Unmarshal(logsJSON, &job.Logs); err != nil {
			return nil, fmt.Errorf("failed to decode logs: %w", err)
		}
	}

	job.LastUpdated = updated.UTC()
	job.CreatedAt = created.UTC()
	return &job, nil
}
