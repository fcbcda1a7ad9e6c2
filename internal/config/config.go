// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ops.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Table names, matching the bootstrap schema
// --------------------------------------------------------------------------

const (
	MatchesTable     = "matches"
	PredictionsTable = "predictions"
	ResultsTable     = "results"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream results provider (api.sstats.net)
	SStatsAPIKey  string
	SStatsBaseURL string
	SStatsRPM     int // upstream requests per minute
	SStatsTimeout time.Duration
	CatalogYear   int

	// Result synchronization
	StaleAfter     time.Duration // outcome cache age that triggers a refresh
	RefreshWorkers int
	SweepInterval  time.Duration // background catch-up refresh; 0 disables
}

// Load reads configuration from environment variables with sensible defaults.
// The database URL is the only value that has no usable default.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("POSTGRES_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or POSTGRES_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 3000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		SStatsAPIKey:  envOr("SSTATS_API_KEY", envOr("API_KEY_SSTATS", "")),
		SStatsBaseURL: envOr("SSTATS_BASE_URL", "https://api.sstats.net"),
		SStatsRPM:     envInt("SSTATS_REQUESTS_PER_MINUTE", 60),
		SStatsTimeout: time.Duration(envInt("SSTATS_TIMEOUT_SECONDS", 10)) * time.Second,
		CatalogYear:   envInt("CATALOG_YEAR", 2025),

		StaleAfter:     time.Duration(envInt("RESULTS_STALE_MINUTES", 60)) * time.Minute,
		RefreshWorkers: envInt("REFRESH_WORKERS", 4),
		SweepInterval:  time.Duration(envInt("SWEEP_INTERVAL_MINUTES", 0)) * time.Minute,
	}, nil
}

// RequireUpstreamKey fails when the sstats credential is absent. Called once
// at process startup so a missing key never surfaces as a per-request error.
func (c *Config) RequireUpstreamKey() error {
	if c.SStatsAPIKey == "" {
		return fmt.Errorf("SSTATS_API_KEY must be set")
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
