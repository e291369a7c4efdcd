package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polysnap/polysnap/internal/domain"
)

const jobKeyPrefix = "polysnap:job:"

// JobStore persists analysis jobs as JSON values with a retention TTL.
// Each job has exactly one writer, so a read-modify-write is safe: readers
// always observe a whole record because SET replaces the value atomically.
type JobStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewJobStore creates a JobStore on the given client. ttl bounds how long
// finished jobs remain pollable; zero means no expiry.
func NewJobStore(client *Client, ttl time.Duration) *JobStore {
	return &JobStore{rdb: client.Underlying(), ttl: ttl}
}

// Create stores a new job record.
func (s *JobStore) Create(ctx context.Context, job domain.Job) error {
	if err := s.write(ctx, job); err != nil {
		return fmt.Errorf("redis: create job %s: %w", job.ID, err)
	}
	return nil
}

// Get returns a job by ID. Missing and expired jobs map to ErrNotFound.
func (s *JobStore) Get(ctx context.Context, id string) (domain.Job, error) {
	data, err := s.rdb.Get(ctx, jobKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Job{}, fmt.Errorf("redis: job %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Job{}, fmt.Errorf("redis: get job %s: %w", id, err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return domain.Job{}, fmt.Errorf("redis: decode job %s: %w", id, err)
	}
	return job, nil
}

// Update applies a partial update and returns the resulting record.
func (s *JobStore) Update(ctx context.Context, id string, upd domain.JobUpdate) (domain.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}

	upd.Apply(&job)

	if err := s.write(ctx, job); err != nil {
		return domain.Job{}, fmt.Errorf("redis: update job %s: %w", id, err)
	}
	return job, nil
}

func (s *JobStore) write(ctx context.Context, job domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return s.rdb.Set(ctx, jobKeyPrefix+job.ID, data, s.ttl).Err()
}
