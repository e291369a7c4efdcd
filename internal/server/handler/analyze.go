package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/polysnap/polysnap/internal/domain"
	"github.com/polysnap/polysnap/internal/pipeline"
)

// AnalysisRunner defines what the analyze handler needs from the pipeline: a
// way to create the job record and a way to execute the run.
type AnalysisRunner interface {
	Start(ctx context.Context, jobID string) (domain.Job, error)
	Run(ctx context.Context, jobID, slug string, budget float64)
}

// JobSubmitter schedules a job function onto the worker pool.
type JobSubmitter interface {
	Submit(jobID string, fn func(ctx context.Context)) error
}

// AnalyzeHandler serves the analysis job endpoints: submission and the two
// polling routes.
type AnalyzeHandler struct {
	analyzer AnalysisRunner
	pool     JobSubmitter
	jobs     domain.JobStore
	logger   *slog.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(analyzer AnalysisRunner, pool JobSubmitter, jobs domain.JobStore, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		pool:     pool,
		jobs:     jobs,
		logger:   logger,
	}
}

// analyzeRequest accepts either a bare event slug or a full polymarket.com
// event URL in the slug field.
type analyzeRequest struct {
	Slug   string  `json:"slug"`
	Budget float64 `json:"budget"`
}

// StartAnalysis creates an analysis job and schedules it on the worker pool.
// The job id is returned immediately for polling.
// POST /api/analyze
func (h *AnalyzeHandler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	slug := pipeline.NormalizeSlug(req.Slug)
	if slug == "" {
		writeError(w, http.StatusBadRequest, "no event slug provided")
		return
	}

	jobID := uuid.New().String()
	if _, err := h.analyzer.Start(r.Context(), jobID); err != nil {
		h.logger.ErrorContext(r.Context(), "handler: create job failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	budget := req.Budget
	err := h.pool.Submit(jobID, func(ctx context.Context) {
		h.analyzer.Run(ctx, jobID, slug, budget)
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: submit job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	h.logger.InfoContext(r.Context(), "handler: analysis job accepted",
		slog.String("job_id", jobID),
		slog.String("slug", slug),
	)
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// jobStatusResponse is the polling view of a job, without the result payload.
type jobStatusResponse struct {
	Status     domain.JobStatus `json:"status"`
	Step       int              `json:"step"`
	TotalSteps int              `json:"total_steps"`
	StepLabel  string           `json:"step_label"`
	Error      string           `json:"error,omitempty"`
}

// JobStatus returns the progress of an analysis job.
// GET /api/analyze/status/{id}
func (h *AnalyzeHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get job failed",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	writeJSON(w, http.StatusOK, jobStatusResponse{
		Status:     job.Status,
		Step:       job.Step,
		TotalSteps: job.TotalSteps,
		StepLabel:  job.StepLabel,
		Error:      job.Error,
	})
}

// JobResult returns the full result of a completed job. A job that has not
// completed yet yields a conflict response carrying the current status.
// GET /api/analyze/result/{id}
func (h *AnalyzeHandler) JobResult(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get job failed",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	if job.Status != domain.JobStatusCompleted {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  fmt.Sprintf("job not ready: %s", job.Status),
			"status": job.Status,
		})
		return
	}

	writeJSON(w, http.StatusOK, job.Result)
}
