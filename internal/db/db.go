// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap, and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frololego/Prikoliga/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and sync
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Fixture catalog
		"match_by_id": `
			SELECT match_id, home_team, away_team, utc_date, status,
			       league_name, country, round, year
			FROM matches WHERE match_id = $1`,
		"match_start_time": "SELECT utc_date FROM matches WHERE match_id = $1",
		"matches_all": `
			SELECT match_id, home_team, away_team, utc_date, status,
			       league_name, country, round, year
			FROM matches ORDER BY utc_date, match_id`,

		// Forecasts
		"prediction_upsert": `
			INSERT INTO predictions (username, match_id, home, away, created_at, updated_at, update_count)
			VALUES ($1, $2, $3, $4, NOW(), NOW(), 0)
			ON CONFLICT (username, match_id)
			DO UPDATE SET home = EXCLUDED.home,
			              away = EXCLUDED.away,
			              updated_at = NOW(),
			              update_count = predictions.update_count + 1
			RETURNING update_count`,
		"predictions_by_user": `
			SELECT username, match_id, home, away, created_at, updated_at, update_count
			FROM predictions WHERE username = $1 ORDER BY match_id`,
		"prediction_users": `
			SELECT DISTINCT username FROM predictions
			WHERE username IS NOT NULL AND TRIM(username) != ''
			ORDER BY username`,
		"predictions_without_result": `
			SELECT DISTINCT p.match_id FROM predictions p
			LEFT JOIN results r ON p.match_id = r.match_id
			WHERE r.match_id IS NULL`,

		// Outcomes
		"result_put": `
			INSERT INTO results (match_id, home_goals, away_goals, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (match_id)
			DO UPDATE SET home_goals = EXCLUDED.home_goals,
			              away_goals = EXCLUDED.away_goals,
			              updated_at = NOW()`,
		"result_newest_refresh": "SELECT MAX(updated_at) FROM results",
		"results_by_match_ids": `
			SELECT match_id, home_goals, away_goals, updated_at
			FROM results WHERE match_id = ANY($1)`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
