package fixture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads and writes catalog rows in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a catalog store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns a single match or ErrNotFound.
func (s *Store) Get(ctx context.Context, matchID int64) (*Fixture, error) {
	var f Fixture
	err := s.pool.QueryRow(ctx, "match_by_id", matchID).Scan(
		&f.MatchID, &f.HomeTeam, &f.AwayTeam, &f.UTCDate, &f.Status,
		&f.LeagueName, &f.Country, &f.Round, &f.Year,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("match %d: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", matchID, err)
	}
	return &f, nil
}

// StartTime returns the scheduled kickoff of a match, or ErrNotFound.
// Satisfies forecast.KickoffSource.
func (s *Store) StartTime(ctx context.Context, matchID int64) (time.Time, error) {
	var t time.Time
	err := s.pool.QueryRow(ctx, "match_start_time", matchID).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("match start time %d: %w", matchID, err)
	}
	return t, nil
}

// List returns the whole catalog ordered by kickoff.
func (s *Store) List(ctx context.Context) ([]Fixture, error) {
	rows, err := s.pool.Query(ctx, "matches_all")
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []Fixture
	for rows.Next() {
		var f Fixture
		if err := rows.Scan(&f.MatchID, &f.HomeTeam, &f.AwayTeam, &f.UTCDate,
			&f.Status, &f.LeagueName, &f.Country, &f.Round, &f.Year); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Upsert inserts or replaces a catalog row. Used only by the importer.
func (s *Store) Upsert(ctx context.Context, f Fixture) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO matches (match_id, home_team, away_team, utc_date, status,
		                     league_name, country, round, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_id)
		DO UPDATE SET home_team = EXCLUDED.home_team,
		              away_team = EXCLUDED.away_team,
		              utc_date = EXCLUDED.utc_date,
		              status = EXCLUDED.status,
		              league_name = EXCLUDED.league_name,
		              country = EXCLUDED.country,
		              round = EXCLUDED.round,
		              year = EXCLUDED.year`,
		f.MatchID, f.HomeTeam, f.AwayTeam, f.UTCDate, f.Status,
		f.LeagueName, f.Country, f.Round, f.Year,
	)
	if err != nil {
		return fmt.Errorf("upsert match %d: %w", f.MatchID, err)
	}
	return nil
}

// GroupByDay buckets matches under their kickoff date in the given location,
// preserving kickoff order inside each bucket. Used by the matches view.
func GroupByDay(fixtures []Fixture, loc *time.Location) map[string][]Fixture {
	if loc == nil {
		loc = time.UTC
	}
	grouped := make(map[string][]Fixture)
	for _, f := range fixtures {
		day := f.UTCDate.In(loc).Format("Monday, 2 January 2006")
		grouped[day] = append(grouped[day], f)
	}
	return grouped
}
