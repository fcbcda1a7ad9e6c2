// Command ops is the Prikoliga operations CLI.
//
// Usage:
//
//	prikoliga-ops refresh
//	prikoliga-ops leaderboard
//	prikoliga-ops import --all
//	prikoliga-ops import --league 235 --year 2025
//	prikoliga-ops gen --users 5 --per-user 10
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/frololego/Prikoliga/internal/config"
	"github.com/frololego/Prikoliga/internal/db"
	"github.com/frololego/Prikoliga/internal/fixture"
	"github.com/frololego/Prikoliga/internal/forecast"
	"github.com/frololego/Prikoliga/internal/leaderboard"
	"github.com/frololego/Prikoliga/internal/outcome"
	"github.com/frololego/Prikoliga/internal/sstats"
	resultsync "github.com/frololego/Prikoliga/internal/sync"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "prikoliga-ops",
		Short: "Prikoliga operations CLI",
	}

	root.AddCommand(refreshCmd())
	root.AddCommand(leaderboardCmd())
	root.AddCommand(importCmd())
	root.AddCommand(genCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// refresh command
// --------------------------------------------------------------------------

func refreshCmd() *cobra.Command {
	var force bool
	var workers int
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh confirmed results for matches with forecasts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := cfg.RequireUpstreamKey(); err != nil {
					return err
				}
				client := sstats.NewClient(cfg.SStatsBaseURL, cfg.SStatsAPIKey, cfg.SStatsRPM, cfg.SStatsTimeout, logger)
				syncer := resultsync.New(
					forecast.NewStore(pool.Pool),
					outcome.NewStore(pool.Pool),
					client, logger,
					resultsync.WithStaleAfter(cfg.StaleAfter),
					resultsync.WithWorkers(workers),
				)

				var report resultsync.Report
				var err error
				if force {
					report, err = syncer.ForceRefresh(ctx)
				} else {
					report, err = syncer.EnsureFresh(ctx)
				}
				if err != nil {
					return err
				}
				logger.Info("Refresh finished", "summary", report.Summary())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Refresh even when cached results are fresh")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent upstream fetches")
	return cmd
}

// --------------------------------------------------------------------------
// leaderboard command
// --------------------------------------------------------------------------

func leaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the current leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				board := leaderboard.New(
					forecast.NewStore(pool.Pool),
					outcome.NewStore(pool.Pool),
					logger,
				)
				summaries, err := board.Compute(ctx)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					fmt.Println("no forecasting users yet")
					return nil
				}
				fmt.Printf("%-4s %-20s %8s %8s %7s %7s %7s %9s %7s\n",
					"#", "user", "total", "done", "exact", "dir", "miss", "accuracy", "rating")
				for i, s := range summaries {
					fmt.Printf("%-4d %-20s %8d %8d %7d %7d %7d %8d%% %7d\n",
						i+1, s.Username, s.TotalPredictions, s.FinishedPredictions,
						s.Correct, s.Partial, s.Wrong, s.AccuracyPercentage, s.Rating)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// import command
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	var leagueID, year int
	var all bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the match catalog from the results provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := cfg.RequireUpstreamKey(); err != nil {
					return err
				}
				if year == 0 {
					year = cfg.CatalogYear
				}
				client := sstats.NewClient(cfg.SStatsBaseURL, cfg.SStatsAPIKey, cfg.SStatsRPM, cfg.SStatsTimeout, logger)
				importer := fixture.NewImporter(fixture.NewStore(pool.Pool), client, logger)

				start := time.Now()
				if all {
					result := importer.ImportAll(ctx, year)
					logger.Info("Import finished",
						"duration", time.Since(start).Round(time.Second),
						"summary", result.Summary())
					for _, e := range result.Errors {
						logger.Error("import error", "error", e)
					}
					return nil
				}

				league, ok := fixture.LeagueByID(leagueID)
				if !ok {
					return fmt.Errorf("league %d is not in the registry", leagueID)
				}
				n, err := importer.ImportLeague(ctx, league, year)
				if err != nil {
					return err
				}
				logger.Info("Import finished",
					"league", league.Name, "matches", n,
					"duration", time.Since(start).Round(time.Second))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&leagueID, "league", 235, "League ID from the registry")
	cmd.Flags().IntVar(&year, "year", 0, "Season year (default CATALOG_YEAR)")
	cmd.Flags().BoolVar(&all, "all", false, "Import every registry league")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runWithPool handles config loading, schema bootstrap, DB connection, and
// context cancellation.
func runWithPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := db.Bootstrap(ctx, cfg); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
