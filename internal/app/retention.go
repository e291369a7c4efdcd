package app

import (
	"context"
	"log/slog"
	"time"
)

// retentionSweepInterval is how often server mode prunes expired jobs.
const retentionSweepInterval = time.Hour

// retentionStore is implemented by job stores that cannot expire records on
// their own. The Redis store is absent here because it expires keys via TTL.
type retentionStore interface {
	DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// sweepExpiredJobs periodically deletes terminal jobs older than the
// retention window. Sweep failures are logged and retried on the next tick.
// It returns nil once ctx is cancelled.
func sweepExpiredJobs(ctx context.Context, store retentionStore, retention, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			deleted, err := store.DeleteOlderThan(ctx, retention)
			if err != nil {
				logger.ErrorContext(ctx, "job retention sweep failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if deleted > 0 {
				logger.InfoContext(ctx, "expired jobs deleted",
					slog.Int64("jobs", deleted),
				)
			}
		}
	}
}
