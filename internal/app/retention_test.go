package app

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetentionStore struct {
	calls     atomic.Int64
	retention atomic.Int64
	err       error
	done      chan struct{}
}

func (f *fakeRetentionStore) DeleteOlderThan(_ context.Context, retention time.Duration) (int64, error) {
	f.retention.Store(int64(retention))
	if f.calls.Add(1) == 3 {
		close(f.done)
	}
	return 2, f.err
}

func TestSweepExpiredJobsPassesRetention(t *testing.T) {
	store := &fakeRetentionStore{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	finished := make(chan error, 1)
	go func() {
		finished <- sweepExpiredJobs(ctx, store, 24*time.Hour, time.Millisecond, slog.New(slog.DiscardHandler))
	}()

	select {
	case <-store.done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep never ran")
	}
	cancel()

	require.NoError(t, <-finished)
	assert.GreaterOrEqual(t, store.calls.Load(), int64(3))
	assert.Equal(t, int64(24*time.Hour), store.retention.Load())
}

func TestSweepExpiredJobsKeepsTickingAfterFailure(t *testing.T) {
	store := &fakeRetentionStore{done: make(chan struct{}), err: errors.New("connection reset")}
	ctx, cancel := context.WithCancel(context.Background())

	finished := make(chan error, 1)
	go func() {
		finished <- sweepExpiredJobs(ctx, store, time.Hour, time.Millisecond, slog.New(slog.DiscardHandler))
	}()

	// Three failed sweeps prove errors do not stop the loop.
	select {
	case <-store.done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep stopped after a failure")
	}
	cancel()

	require.NoError(t, <-finished)
}
