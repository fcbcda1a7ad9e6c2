package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/frololego/Prikoliga/internal/config"
)

// bootstrapDDL creates the tables the core needs when they do not exist yet.
// Kept as idempotent statements so every command can run it at startup
// without coordinating a migration step.
var bootstrapDDL = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		match_id    BIGINT PRIMARY KEY,
		home_team   TEXT NOT NULL,
		away_team   TEXT NOT NULL,
		utc_date    TIMESTAMPTZ NOT NULL,
		status      TEXT NOT NULL DEFAULT 'SCHEDULED',
		league_name TEXT NOT NULL DEFAULT '',
		country     TEXT NOT NULL DEFAULT '',
		round       TEXT NOT NULL DEFAULT '',
		year        INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		username     TEXT NOT NULL,
		match_id     BIGINT NOT NULL,
		home         INT NOT NULL CHECK (home >= 0),
		away         INT NOT NULL CHECK (away >= 0),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		update_count INT NOT NULL DEFAULT 0,
		PRIMARY KEY (username, match_id)
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		match_id   BIGINT PRIMARY KEY,
		home_goals INT NOT NULL CHECK (home_goals >= 0),
		away_goals INT NOT NULL CHECK (away_goals >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_updated_at ON results (updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_match ON predictions (match_id)`,
}

// Bootstrap applies the schema over a dedicated plain connection. It must run
// before New(): the pool's AfterConnect hook prepares statements that
// reference these tables, and Postgres rejects preparing against missing
// relations.
func Bootstrap(ctx context.Context, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect for bootstrap: %w", err)
	}
	defer conn.Close(ctx)

	for _, ddl := range bootstrapDDL {
		if _, err := conn.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
