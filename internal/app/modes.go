package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polysnap/polysnap/internal/domain"
	"github.com/polysnap/polysnap/internal/server"
	"github.com/polysnap/polysnap/internal/server/handler"
)

// ServerMode runs the HTTP API and the analysis worker pool until the context
// is cancelled, then drains in-flight jobs and shuts the server down.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	handlers := server.Handlers{
		Health:   handler.NewHealthHandler(a.logger),
		Analyze:  handler.NewAnalyzeHandler(deps.Analyzer, deps.Pool, deps.Jobs, a.logger),
		Trending: handler.NewTrendingHandler(deps.Trending, a.logger),
		Whales:   handler.NewWhaleHandler(deps.Whales, a.logger),
		ROI:      handler.NewROIHandler(a.logger),
	}

	srv := server.NewServer(server.Config{
		Addr:        a.cfg.Server.Addr,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	}, handlers, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	// The Postgres store has no key TTLs, so server mode prunes its
	// expired jobs itself. The Redis store expires records on its own.
	if rs, ok := deps.Jobs.(retentionStore); ok && a.cfg.Analyzer.JobTTL.Duration > 0 {
		g.Go(func() error {
			return sweepExpiredJobs(ctx, rs, a.cfg.Analyzer.JobTTL.Duration, retentionSweepInterval, a.logger)
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Stop taking requests first, then drain the pool so running jobs
		// can still write their terminal state.
		if err := srv.Shutdown(shutCtx); err != nil {
			a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		}
		return deps.Pool.Shutdown(shutCtx)
	})

	return g.Wait()
}

// ScanMode performs a one-shot trending scan and prints each scored market as
// a JSON line on stdout.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	markets, err := deps.Trending.Trending(ctx, domain.TrendingQuery{})
	if err != nil {
		return fmt.Errorf("app: trending scan: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, m := range markets {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("app: encode market: %w", err)
		}
	}

	a.logger.InfoContext(ctx, "scan complete", slog.Int("markets", len(markets)))
	return nil
}
