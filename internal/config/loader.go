package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYSNAP_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYSNAP_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "POLYSNAP_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.ClobHost, "POLYSNAP_POLYMARKET_CLOB_HOST")

	// ── Kalshi ──
	setStr(&cfg.Kalshi.BaseURL, "POLYSNAP_KALSHI_BASE_URL")

	// ── Equity ──
	setStr(&cfg.Equity.BaseURL, "POLYSNAP_EQUITY_BASE_URL")

	// ── Odds ──
	setStr(&cfg.Odds.BaseURL, "POLYSNAP_ODDS_BASE_URL")
	setStr(&cfg.Odds.ApiKey, "POLYSNAP_ODDS_API_KEY")

	// ── Etherscan ──
	setStr(&cfg.Etherscan.BaseURL, "POLYSNAP_ETHERSCAN_BASE_URL")
	setStr(&cfg.Etherscan.ApiKey, "POLYSNAP_ETHERSCAN_API_KEY")

	// ── Anthropic ──
	setStr(&cfg.Anthropic.BaseURL, "POLYSNAP_ANTHROPIC_BASE_URL")
	setStr(&cfg.Anthropic.ApiKey, "POLYSNAP_ANTHROPIC_API_KEY")
	setStr(&cfg.Anthropic.Model, "POLYSNAP_ANTHROPIC_MODEL")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "POLYSNAP_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POLYSNAP_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POLYSNAP_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POLYSNAP_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "POLYSNAP_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "POLYSNAP_REDIS_TLS_ENABLED")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "POLYSNAP_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "POLYSNAP_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "POLYSNAP_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "POLYSNAP_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "POLYSNAP_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "POLYSNAP_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "POLYSNAP_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "POLYSNAP_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "POLYSNAP_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "POLYSNAP_POSTGRES_RUN_MIGRATIONS")

	// ── Analyzer ──
	setFloat64(&cfg.Analyzer.Bankroll, "POLYSNAP_ANALYZER_BANKROLL")
	setInt(&cfg.Analyzer.Workers, "POLYSNAP_ANALYZER_WORKERS")
	setStr(&cfg.Analyzer.JobStore, "POLYSNAP_ANALYZER_JOB_STORE")
	setDuration(&cfg.Analyzer.JobTTL, "POLYSNAP_ANALYZER_JOB_TTL")

	// ── Cache ──
	setDuration(&cfg.Cache.ListingTTL, "POLYSNAP_CACHE_LISTING_TTL")
	setDuration(&cfg.Cache.StatsTTL, "POLYSNAP_CACHE_STATS_TTL")

	// ── Server ──
	setStr(&cfg.Server.Addr, "POLYSNAP_SERVER_ADDR")
	setStringSlice(&cfg.Server.CORSOrigins, "POLYSNAP_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "POLYSNAP_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "POLYSNAP_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "POLYSNAP_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "POLYSNAP_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "POLYSNAP_MODE")
	setStr(&cfg.LogLevel, "POLYSNAP_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
