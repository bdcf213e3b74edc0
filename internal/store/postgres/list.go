package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"
)

// ListJobs returns one page of job history ordered strictly by
// (last_updated DESC, job_id DESC). The composite key gives a total order
// even when jobs share a timestamp. The store fetches limit+1 rows to
// determine has_more without a second count query.
func (s *Store) ListJobs(ctx context.Context, opts store.ListOptions) (*store.JobPage, error) {
	if opts.Limit < 1 || opts.Limit > store.MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", store.ErrValidation, store.MaxListLimit)
	}

	var (
		conditions []string
		args       []interface{}
	)
	argIndex := 1

	if opts.Status != nil {
		if !opts.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", store.ErrValidation, *opts.Status)
		}
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *opts.Status)
		argIndex++
	}

	if opts.Cursor != "" {
		cursor, err := store.DecodeCursor(opts.Cursor)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, fmt.Sprintf(
			"(last_updated < $%d OR (last_updated = $%d AND job_id < $%d))",
			argIndex, argIndex, argIndex+1,
		))
		args = append(args, cursor.LastUpdated, cursor.JobID)
		argIndex += 2
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM fea_jobs
		%s
		ORDER BY last_updated DESC, job_id DESC
		LIMIT $%d
	`, jobColumns, whereClause, argIndex)
	args = append(args, opts.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	var jobs []*store.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan failed: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rows error: %w", err)
	}

	page := &store.JobPage{Jobs: jobs}
	if len(jobs) > opts.Limit {
		page.Jobs = jobs[:opts.Limit]
		page.HasMore = true

		last := page.Jobs[len(page.Jobs)-1]
		page.NextCursor = store.Cursor{
			LastUpdated: last.LastUpdated,
			JobID:       last.ID,
		}.Encode()
	}

	return page, nil
}
