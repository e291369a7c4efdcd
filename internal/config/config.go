// Package config defines the top-level configuration for the analysis
// backend and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by POLYSNAP_* environment variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Equity     EquityConfig     `toml:"equity"`
	Odds       OddsConfig       `toml:"odds"`
	Etherscan  EtherscanConfig  `toml:"etherscan"`
	Anthropic  AnthropicConfig  `toml:"anthropic"`
	Redis      RedisConfig      `toml:"redis"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Analyzer   AnalyzerConfig   `toml:"analyzer"`
	Cache      CacheConfig      `toml:"cache"`
	Server     ServerConfig     `toml:"server"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds Polymarket API endpoints.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	ClobHost  string `toml:"clob_host"`
}

// KalshiConfig holds the Kalshi public API endpoint.
type KalshiConfig struct {
	BaseURL string `toml:"base_url"`
}

// EquityConfig holds the equity quote API endpoint.
type EquityConfig struct {
	BaseURL string `toml:"base_url"`
}

// OddsConfig holds The Odds API endpoint and credentials. An empty api_key
// disables the sports-odds collector.
type OddsConfig struct {
	BaseURL string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
}

// EtherscanConfig holds the Etherscan v2 endpoint and credentials. An empty
// api_key disables the whale-tracking collector.
type EtherscanConfig struct {
	BaseURL string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
}

// AnthropicConfig holds the report generator endpoint and credentials. An
// empty api_key replaces reports with a fixed placeholder.
type AnthropicConfig struct {
	BaseURL string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// AnalyzerConfig holds the job pipeline parameters. JobStore selects the
// backing store for job records: "redis" or "postgres".
type AnalyzerConfig struct {
	Bankroll float64  `toml:"bankroll"`
	Workers  int      `toml:"workers"`
	JobStore string   `toml:"job_store"`
	JobTTL   duration `toml:"job_ttl"`
}

// CacheConfig holds the per-process listing cache TTLs.
type CacheConfig struct {
	ListingTTL duration `toml:"listing_ttl"`
	StatsTTL   duration `toml:"stats_ttl"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			ClobHost:  "https://clob.polymarket.com",
		},
		Kalshi: KalshiConfig{
			BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
		},
		Equity: EquityConfig{
			BaseURL: "https://query1.finance.yahoo.com",
		},
		Odds: OddsConfig{
			BaseURL: "https://api.the-odds-api.com/v4",
		},
		Etherscan: EtherscanConfig{
			BaseURL: "https://api.etherscan.io/v2/api",
		},
		Anthropic: AnthropicConfig{
			BaseURL: "https://api.anthropic.com",
			Model:   "claude-sonnet-4-20250514",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "polysnap",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Analyzer: AnalyzerConfig{
			Bankroll: 1000,
			Workers:  4,
			JobStore: "redis",
			JobTTL:   duration{24 * time.Hour},
		},
		Cache: CacheConfig{
			ListingTTL: duration{60 * time.Second},
			StatsTTL:   duration{30 * time.Second},
		},
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"analysis_completed", "analysis_failed"},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server": true,
	"scan":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validJobStores enumerates the accepted values for Analyzer.JobStore.
var validJobStores = map[string]bool{
	"redis":    true,
	"postgres": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, scan)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Polymarket endpoints
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.ClobHost == "" {
		errs = append(errs, "polymarket: clob_host must not be empty")
	}

	// Kalshi
	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}

	// Equity
	if c.Equity.BaseURL == "" {
		errs = append(errs, "equity: base_url must not be empty")
	}

	// Analyzer
	if c.Analyzer.Bankroll <= 0 {
		errs = append(errs, "analyzer: bankroll must be > 0")
	}
	if c.Analyzer.Workers < 1 {
		errs = append(errs, "analyzer: workers must be >= 1")
	}
	if !validJobStores[strings.ToLower(c.Analyzer.JobStore)] {
		errs = append(errs, fmt.Sprintf("analyzer: unknown job_store %q (valid: redis, postgres)", c.Analyzer.JobStore))
	}

	// Job store backends: only the selected one must be reachable.
	switch strings.ToLower(c.Analyzer.JobStore) {
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	case "postgres":
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Cache
	if c.Cache.ListingTTL.Duration <= 0 {
		errs = append(errs, "cache: listing_ttl must be > 0")
	}
	if c.Cache.StatsTTL.Duration <= 0 {
		errs = append(errs, "cache: stats_ttl must be > 0")
	}

	// Server
	if strings.ToLower(c.Mode) == "server" && c.Server.Addr == "" {
		errs = append(errs, "server: addr must not be empty")
	}

	// Notify: Telegram needs both halves of the credential pair.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
