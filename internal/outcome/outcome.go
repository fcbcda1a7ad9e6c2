// Package outcome stores confirmed final scores. A missing row means the
// match is not finished yet, never the same thing as a 0:0 result.
package outcome

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Outcome is the confirmed final score of a finished match.
type Outcome struct {
	MatchID   int64     `json:"match_id"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists outcomes in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates an outcome store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Put inserts or replaces the whole result row for a match and stamps the
// current time. Replacing the full row keeps values from different refresh
// attempts from mixing.
func (s *Store) Put(ctx context.Context, matchID int64, homeGoals, awayGoals int) error {
	if _, err := s.pool.Exec(ctx, "result_put", matchID, homeGoals, awayGoals); err != nil {
		return fmt.Errorf("put result %d: %w", matchID, err)
	}
	return nil
}

// NewestRefresh returns the most recent refresh timestamp across all stored
// results. ok=false means no result has ever been stored.
func (s *Store) NewestRefresh(ctx context.Context) (t time.Time, ok bool, err error) {
	var newest *time.Time
	if err := s.pool.QueryRow(ctx, "result_newest_refresh").Scan(&newest); err != nil {
		return time.Time{}, false, fmt.Errorf("newest refresh: %w", err)
	}
	if newest == nil {
		return time.Time{}, false, nil
	}
	return *newest, true, nil
}

// ByMatchIDs returns the confirmed results for the given matches, keyed by
// match ID. Matches without a stored result are simply absent from the map.
func (s *Store) ByMatchIDs(ctx context.Context, matchIDs []int64) (map[int64]Outcome, error) {
	out := make(map[int64]Outcome, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx, "results_by_match_ids", matchIDs)
	if err != nil {
		return nil, fmt.Errorf("results by match ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.MatchID, &o.HomeGoals, &o.AwayGoals, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out[o.MatchID] = o
	}
	return out, rows.Err()
}
