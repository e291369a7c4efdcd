package domain

import (
	"context"
	"time"
)

// JobStatus represents the lifecycle state of an analysis job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusError     JobStatus = "error"
)

// Terminal reports whether the status is a terminal state. A job in a
// terminal state is never resumed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// Job is the durable record of one analysis pipeline run. It is created at
// request time, mutated only by the analyzer (single writer per job id), and
// polled by independent reader connections until it reaches a terminal state.
type Job struct {
	ID         string          `json:"id"`
	Status     JobStatus       `json:"status"`
	Step       int             `json:"step"`
	TotalSteps int             `json:"total_steps"`
	StepLabel  string          `json:"step_label"`
	Result     *AnalysisResult `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobUpdate is a partial update of a Job. Nil fields leave the corresponding
// record field unchanged.
type JobUpdate struct {
	Status    *JobStatus
	Step      *int
	StepLabel *string
	Result    *AnalysisResult
	Error     *string
}

// Apply merges the update into the job in place and bumps UpdatedAt.
func (u JobUpdate) Apply(j *Job) {
	if u.Status != nil {
		j.Status = *u.Status
	}
	if u.Step != nil {
		j.Step = *u.Step
	}
	if u.StepLabel != nil {
		j.StepLabel = *u.StepLabel
	}
	if u.Result != nil {
		j.Result = u.Result
	}
	if u.Error != nil {
		j.Error = *u.Error
	}
	j.UpdatedAt = time.Now().UTC()
}

// JobStore is the keyed durable store for job records. Update must be atomic
// with respect to readers: a concurrent Get observes either the fully-old or
// fully-new record, never a partial merge. Each job id is written by exactly
// one producer, so no cross-writer coordination is required.
type JobStore interface {
	Create(ctx context.Context, job Job) error
	Get(ctx context.Context, id string) (Job, error)
	Update(ctx context.Context, id string, upd JobUpdate) (Job, error)
}
