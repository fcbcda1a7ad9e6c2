package forecast

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists forecasts in Postgres. Queries run against prepared
// statements registered by the db package.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a forecast store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Upsert writes a forecast for (username, match). The first write creates the
// row with update_count 0; every later write replaces the score, refreshes
// updated_at, and increments update_count in a single conditional statement,
// never read-then-write, so concurrent submissions cannot lose increments.
// Returns created=true when the row did not exist before.
func (s *Store) Upsert(ctx context.Context, username string, matchID int64, home, away int) (created bool, err error) {
	var updateCount int
	err = s.pool.QueryRow(ctx, "prediction_upsert", username, matchID, home, away).Scan(&updateCount)
	if err != nil {
		return false, fmt.Errorf("upsert prediction: %w", err)
	}
	return updateCount == 0, nil
}

// ListByUser returns all forecasts a user has submitted, finished or not.
func (s *Store) ListByUser(ctx context.Context, username string) ([]Forecast, error) {
	rows, err := s.pool.Query(ctx, "predictions_by_user", username)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var out []Forecast
	for rows.Next() {
		var f Forecast
		if err := rows.Scan(&f.Username, &f.MatchID, &f.Home, &f.Away,
			&f.CreatedAt, &f.UpdatedAt, &f.UpdateCount); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DistinctUsers returns every user with at least one non-blank forecast,
// in ascending order.
func (s *Store) DistinctUsers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "prediction_users")
	if err != nil {
		return nil, fmt.Errorf("list forecast users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// MatchIDsWithoutResult returns the distinct matches that have at least one
// forecast but no confirmed result yet. Matches nobody forecast are never
// returned, which bounds upstream fetches to matches users care about.
func (s *Store) MatchIDsWithoutResult(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, "predictions_without_result")
	if err != nil {
		return nil, fmt.Errorf("list unresolved matches: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan match id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
