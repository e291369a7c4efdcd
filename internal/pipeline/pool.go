package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many analysis jobs run concurrently. Submit never blocks
// the caller: the job waits for a slot in its own goroutine, so the HTTP
// handler can return the job id immediately.
type Pool struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool creates a pool running at most workers jobs at once.
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    semaphore.NewWeighted(int64(workers)),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With(slog.String("component", "worker_pool")),
	}
}

// Submit schedules fn to run once a worker slot frees up. It fails only
// when the pool is already shut down.
func (p *Pool) Submit(jobID string, fn func(ctx context.Context)) error {
	if p.ctx.Err() != nil {
		return fmt.Errorf("pipeline: pool closed: %w", p.ctx.Err())
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			p.logger.Warn("job dropped on shutdown", slog.String("job_id", jobID))
			return
		}
		defer p.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("job panicked",
					slog.String("job_id", jobID), slog.Any("panic", r))
			}
		}()
		fn(p.ctx)
	}()
	return nil
}

// Shutdown stops accepting jobs and waits for running ones until ctx
// expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return fmt.Errorf("pipeline: pool shutdown: %w", ctx.Err())
	}
}
