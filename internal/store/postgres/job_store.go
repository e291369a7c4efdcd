package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polysnap/polysnap/internal/domain"
)

// JobStore persists analysis jobs in PostgreSQL. Updates lock the row, so
// concurrent progress writes from a worker and status reads from handlers
// always observe a consistent job.
type JobStore struct {
	pool *pgxpool.Pool
}

// NewJobStore creates a JobStore on the given client.
func NewJobStore(client *Client) *JobStore {
	return &JobStore{pool: client.Pool()}
}

// Create inserts a new job record.
func (s *JobStore) Create(ctx context.Context, job domain.Job) error {
	resultJSON, err := marshalResult(job.Result)
	if err != nil {
		return fmt.Errorf("postgres: encode job result: %w", err)
	}

	const q = `
		INSERT INTO jobs (id, status, step, total_steps, step_label, result, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = s.pool.Exec(ctx, q,
		job.ID, string(job.Status), job.Step, job.TotalSteps, job.StepLabel,
		resultJSON, job.Error, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create job %s: %w", job.ID, err)
	}
	return nil
}

// Get returns a job by ID.
func (s *JobStore) Get(ctx context.Context, id string) (domain.Job, error) {
	const q = `
		SELECT id, status, step, total_steps, step_label, result, error, created_at, updated_at
		FROM jobs WHERE id = $1`
	job, err := scanJob(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("postgres: job %s: %w", id, domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("postgres: get job %s: %w", id, err)
	}
	return job, nil
}

// Update applies a partial update to a job under a row lock and returns the
// resulting record.
func (s *JobStore) Update(ctx context.Context, id string, upd domain.JobUpdate) (domain.Job, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Job{}, fmt.Errorf("postgres: begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	const sel = `
		SELECT id, status, step, total_steps, step_label, result, error, created_at, updated_at
		FROM jobs WHERE id = $1 FOR UPDATE`
	job, err := scanJob(tx.QueryRow(ctx, sel, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("postgres: job %s: %w", id, domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("postgres: lock job %s: %w", id, err)
	}

	upd.Apply(&job)

	resultJSON, err := marshalResult(job.Result)
	if err != nil {
		return domain.Job{}, fmt.Errorf("postgres: encode job result: %w", err)
	}

	const set = `
		UPDATE jobs
		SET status = $2, step = $3, step_label = $4, result = $5, error = $6, updated_at = $7
		WHERE id = $1`
	if _, err := tx.Exec(ctx, set,
		job.ID, string(job.Status), job.Step, job.StepLabel, resultJSON, job.Error, job.UpdatedAt,
	); err != nil {
		return domain.Job{}, fmt.Errorf("postgres: update job %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Job{}, fmt.Errorf("postgres: commit update: %w", err)
	}
	return job, nil
}

// DeleteOlderThan removes terminal jobs whose last update is older than the
// given retention window. Returns the number of rows deleted. Running jobs
// are never touched.
func (s *JobStore) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	const q = `
		DELETE FROM jobs
		WHERE status IN ('completed', 'error')
		  AND updated_at < NOW() - make_interval(secs => $1)`
	tag, err := s.pool.Exec(ctx, q, retention.Seconds())
	if err != nil {
		return 0, fmt.Errorf("postgres: delete old jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (domain.Job, error) {
	var (
		job        domain.Job
		status     string
		resultJSON []byte
	)
	err := row.Scan(
		&job.ID, &status, &job.Step, &job.TotalSteps, &job.StepLabel,
		&resultJSON, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}
	job.Status = domain.JobStatus(status)

	if len(resultJSON) > 0 {
		var result domain.AnalysisResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return domain.Job{}, fmt.Errorf("decode result: %w", err)
		}
		job.Result = &result
	}
	return job, nil
}

func marshalResult(result *domain.AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	return json.Marshal(result)
}
