package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/polysnap/polysnap/internal/cache/memory"
	"github.com/polysnap/polysnap/internal/config"
	"github.com/polysnap/polysnap/internal/domain"
	"github.com/polysnap/polysnap/internal/notify"
	"github.com/polysnap/polysnap/internal/pipeline"
	"github.com/polysnap/polysnap/internal/platform/anthropic"
	"github.com/polysnap/polysnap/internal/platform/equities"
	"github.com/polysnap/polysnap/internal/platform/etherscan"
	"github.com/polysnap/polysnap/internal/platform/kalshi"
	"github.com/polysnap/polysnap/internal/platform/oddsapi"
	"github.com/polysnap/polysnap/internal/platform/polymarket"
	"github.com/polysnap/polysnap/internal/service"
	"github.com/polysnap/polysnap/internal/store/postgres"
	redisstore "github.com/polysnap/polysnap/internal/store/redis"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	Jobs     domain.JobStore
	Analyzer *pipeline.Analyzer
	Pool     *pipeline.Pool
	Trending *service.TrendingService
	Whales   *etherscan.Client
	Notifier *notify.Notifier
}

// needsJobStore returns true for modes that persist analysis jobs.
func needsJobStore(mode string) bool {
	return strings.ToLower(mode) == "server"
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Collectors ---
	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost)
	clob := polymarket.NewClobClient(cfg.Polymarket.ClobHost)
	venue := kalshi.NewClient(cfg.Kalshi.BaseURL)
	quotes := equities.NewClient(cfg.Equity.BaseURL)
	odds := oddsapi.NewClient(cfg.Odds.BaseURL, cfg.Odds.ApiKey)
	reports := anthropic.NewClient(cfg.Anthropic.BaseURL, cfg.Anthropic.ApiKey, cfg.Anthropic.Model)
	deps.Whales = etherscan.NewClient(cfg.Etherscan.BaseURL, cfg.Etherscan.ApiKey)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Job store (only for modes that run analysis jobs) ---
	if needsJobStore(cfg.Mode) {
		switch strings.ToLower(cfg.Analyzer.JobStore) {
		case "postgres":
			pgClient, err := postgres.New(ctx, postgres.ClientConfig{
				DSN:      cfg.Postgres.DSN,
				Host:     cfg.Postgres.Host,
				Port:     cfg.Postgres.Port,
				Database: cfg.Postgres.Database,
				User:     cfg.Postgres.User,
				Password: cfg.Postgres.Password,
				SSLMode:  cfg.Postgres.SSLMode,
				MaxConns: cfg.Postgres.PoolMaxConns,
				MinConns: cfg.Postgres.PoolMinConns,
			})
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres: %w", err)
			}
			closers = append(closers, pgClient.Close)

			if cfg.Postgres.RunMigrations {
				if err := pgClient.RunMigrations(ctx); err != nil {
					cleanup()
					return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
				}
			}
			deps.Jobs = postgres.NewJobStore(pgClient)
		default:
			redisClient, err := redisstore.New(ctx, redisstore.ClientConfig{
				Addr:       cfg.Redis.Addr,
				Password:   cfg.Redis.Password,
				DB:         cfg.Redis.DB,
				PoolSize:   cfg.Redis.PoolSize,
				MaxRetries: cfg.Redis.MaxRetries,
				TLSEnabled: cfg.Redis.TLSEnabled,
			})
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: redis: %w", err)
			}
			closers = append(closers, func() { _ = redisClient.Close() })
			deps.Jobs = redisstore.NewJobStore(redisClient, cfg.Analyzer.JobTTL.Duration)
		}

		deps.Analyzer = pipeline.NewAnalyzer(
			deps.Jobs, gamma, quotes, odds, venue, deps.Whales, clob,
			reports, deps.Notifier, logger,
		)
		deps.Pool = pipeline.NewPool(cfg.Analyzer.Workers, logger)
	}

	// --- Trending / stats service ---
	deps.Trending = service.NewTrendingService(
		gamma,
		memory.New(),
		cfg.Cache.ListingTTL.Duration,
		cfg.Cache.StatsTTL.Duration,
		logger,
	)

	return deps, cleanup, nil
}
