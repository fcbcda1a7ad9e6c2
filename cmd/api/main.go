// Command api is the Prikoliga API server.
//
// Usage:
//
//	prikoliga-api
//	API_PORT=3000 prikoliga-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/frololego/Prikoliga/internal/api"
	"github.com/frololego/Prikoliga/internal/api/handler"
	"github.com/frololego/Prikoliga/internal/cache"
	"github.com/frololego/Prikoliga/internal/config"
	"github.com/frololego/Prikoliga/internal/db"
	"github.com/frololego/Prikoliga/internal/fixture"
	"github.com/frololego/Prikoliga/internal/forecast"
	"github.com/frololego/Prikoliga/internal/leaderboard"
	"github.com/frololego/Prikoliga/internal/metrics"
	"github.com/frololego/Prikoliga/internal/outcome"
	"github.com/frololego/Prikoliga/internal/sstats"
	resultsync "github.com/frololego/Prikoliga/internal/sync"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// The upstream credential is required up front: a missing key must never
	// surface as a per-request error.
	if err := cfg.RequireUpstreamKey(); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Apply schema, then connect the pool (prepared statements need the
	// tables to exist)
	if err := db.Bootstrap(ctx, cfg); err != nil {
		logger.Error("Failed to bootstrap schema", "error", err)
		os.Exit(1)
	}

	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Core wiring
	m := metrics.New()
	appCache := cache.New(true)

	fixtures := fixture.NewStore(pool.Pool)
	forecasts := forecast.NewStore(pool.Pool)
	outcomes := outcome.NewStore(pool.Pool)
	client := sstats.NewClient(cfg.SStatsBaseURL, cfg.SStatsAPIKey, cfg.SStatsRPM, cfg.SStatsTimeout, logger)

	syncer := resultsync.New(forecasts, outcomes, client, logger,
		resultsync.WithStaleAfter(cfg.StaleAfter),
		resultsync.WithWorkers(cfg.RefreshWorkers),
		resultsync.WithMetrics(m),
	)
	submit := forecast.NewService(forecasts, fixtures, logger)
	board := leaderboard.New(forecasts, outcomes, logger)

	// Background catch-up sweep (disabled unless configured)
	if cfg.SweepInterval > 0 {
		go resultsync.StartSweep(ctx, syncer, cfg.SweepInterval, logger)
	}

	// Create router
	router := api.NewRouter(handler.Deps{
		Submit:    submit,
		Refresher: syncer,
		Board:     board,
		Forecasts: forecasts,
		Catalog:   fixtures,
		Outcomes:  outcomes,
		Health:    pool,
		Cache:     appCache,
		Config:    cfg,
	}, m, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Prikoliga API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
