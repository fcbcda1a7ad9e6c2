package fixture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frololego/Prikoliga/internal/sstats"
)

// ImportResult tracks counts and errors from a catalog import run.
type ImportResult struct {
	LeaguesProcessed int
	LeaguesFailed    int
	MatchesUpserted  int
	Errors           []string
}

// AddErrorf records a formatted error message.
func (r *ImportResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the import run.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("leagues=%d failed=%d matches=%d errors=%d",
		r.LeaguesProcessed, r.LeaguesFailed, r.MatchesUpserted, len(r.Errors))
}

// Importer pulls league seasons from the provider into the catalog.
type Importer struct {
	store  *Store
	client *sstats.Client
	logger *slog.Logger
}

// NewImporter creates a catalog importer.
func NewImporter(store *Store, client *sstats.Client, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, client: client, logger: logger}
}

// ImportLeague imports one league season. Returns the number of matches
// upserted.
func (i *Importer) ImportLeague(ctx context.Context, league League, year int) (int, error) {
	games, err := i.client.ListGames(ctx, league.ID, year)
	if err != nil {
		return 0, fmt.Errorf("list games for league %d: %w", league.ID, err)
	}

	upserted := 0
	for _, g := range games {
		status := StatusScheduled
		if g.Finished {
			status = StatusFinished
		}
		f := Fixture{
			MatchID:    g.ID,
			HomeTeam:   g.HomeTeam,
			AwayTeam:   g.AwayTeam,
			UTCDate:    g.UTCDate,
			Status:     status,
			LeagueName: league.Name,
			Country:    league.Country,
			Round:      g.Round,
			Year:       g.Year,
		}
		if err := i.store.Upsert(ctx, f); err != nil {
			return upserted, err
		}
		upserted++
	}

	i.logger.Info("League imported", "league", league.Name, "year", year, "matches", upserted)
	return upserted, nil
}

// ImportAll imports every registry league for the given year. A failing
// league is logged and skipped; the run continues with the rest.
func (i *Importer) ImportAll(ctx context.Context, year int) ImportResult {
	var result ImportResult
	for _, league := range Leagues {
		n, err := i.ImportLeague(ctx, league, year)
		result.MatchesUpserted += n
		if err != nil {
			result.LeaguesFailed++
			result.AddErrorf("league %d (%s): %s", league.ID, league.Name, err)
			i.logger.Error("League import failed", "league", league.Name, "error", err)
			continue
		}
		result.LeaguesProcessed++
	}
	return result
}
