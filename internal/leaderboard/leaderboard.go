// Package leaderboard joins forecasts with confirmed results across all
// users and produces the ranked accuracy summary. Derived on demand, never
// persisted.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/frololego/Prikoliga/internal/forecast"
	"github.com/frololego/Prikoliga/internal/outcome"
	"github.com/frololego/Prikoliga/internal/scoring"
)

const defaultWorkers = 4

// ForecastSource provides the forecasts to rank.
type ForecastSource interface {
	DistinctUsers(ctx context.Context) ([]string, error)
	ListByUser(ctx context.Context, username string) ([]forecast.Forecast, error)
}

// OutcomeSource provides confirmed results for a set of matches.
type OutcomeSource interface {
	ByMatchIDs(ctx context.Context, matchIDs []int64) (map[int64]outcome.Outcome, error)
}

// UserSummary is one leaderboard row. Field names match the analytics API
// payload the frontend renders.
type UserSummary struct {
	Username            string `json:"username"`
	TotalPredictions    int    `json:"totalPredictions"`
	FinishedPredictions int    `json:"finishedPredictions"`
	Correct             int    `json:"correct"`
	Partial             int    `json:"partial"`
	Wrong               int    `json:"wrong"`
	AccuracyPercentage  int    `json:"accuracyPercentage"`
	Rating              int    `json:"rating"`
}

// Aggregator computes leaderboard rows.
type Aggregator struct {
	forecasts ForecastSource
	outcomes  OutcomeSource
	workers   int
	logger    *slog.Logger
}

// New creates an Aggregator.
func New(forecasts ForecastSource, outcomes OutcomeSource, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		forecasts: forecasts,
		outcomes:  outcomes,
		workers:   defaultWorkers,
		logger:    logger,
	}
}

// Compute builds the full leaderboard. Users whose forecasts are all still
// unfinished appear with zero rating rather than being dropped. A system
// with no forecasting users yields an empty, non-nil slice.
//
// Per-user computation is read-only and independent, so users are processed
// by a small worker pool.
func (a *Aggregator) Compute(ctx context.Context) ([]UserSummary, error) {
	users, err := a.forecasts.DistinctUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	if len(users) == 0 {
		return summaries, nil
	}

	workers := a.workers
	if workers > len(users) {
		workers = len(users)
	}

	ch := make(chan string, len(users))
	for _, u := range users {
		ch <- u
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for username := range ch {
				summary, err := a.ComputeUser(ctx, username)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else {
					summaries = append(summaries, summary)
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	sortSummaries(summaries)
	a.logger.Info("Leaderboard computed", "users", len(summaries))
	return summaries, nil
}

// ComputeUser builds one user's summary. Forecasts for unfinished matches
// count toward totals but are excluded from classification.
func (a *Aggregator) ComputeUser(ctx context.Context, username string) (UserSummary, error) {
	forecasts, err := a.forecasts.ListByUser(ctx, username)
	if err != nil {
		return UserSummary{}, fmt.Errorf("forecasts for %s: %w", username, err)
	}

	summary := UserSummary{
		Username:         username,
		TotalPredictions: len(forecasts),
	}

	matchIDs := make([]int64, 0, len(forecasts))
	for _, f := range forecasts {
		matchIDs = append(matchIDs, f.MatchID)
	}

	results, err := a.outcomes.ByMatchIDs(ctx, matchIDs)
	if err != nil {
		return UserSummary{}, fmt.Errorf("results for %s: %w", username, err)
	}

	for _, f := range forecasts {
		res, finished := results[f.MatchID]
		if !finished {
			continue
		}
		summary.FinishedPredictions++
		switch scoring.Classify(f.Home, f.Away, res.HomeGoals, res.AwayGoals) {
		case scoring.Exact:
			summary.Correct++
		case scoring.Directional:
			summary.Partial++
		default:
			summary.Wrong++
		}
	}

	if summary.FinishedPredictions > 0 {
		summary.AccuracyPercentage = int(math.Round(
			float64(summary.Correct+summary.Partial) / float64(summary.FinishedPredictions) * 100))
		summary.Rating = summary.Correct*scoring.ExactPoints + summary.Partial*scoring.DirectionalPoints
	}
	return summary, nil
}

// sortSummaries orders rows by rating desc, accuracy desc, username asc so
// repeated calls over the same snapshot return the same ordering.
func sortSummaries(s []UserSummary) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Rating != s[j].Rating {
			return s[i].Rating > s[j].Rating
		}
		if s[i].AccuracyPercentage != s[j].AccuracyPercentage {
			return s[i].AccuracyPercentage > s[j].AccuracyPercentage
		}
		return s[i].Username < s[j].Username
	})
}
