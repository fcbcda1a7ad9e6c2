// Package sync decides when cached results are stale and drives the refresh
// of every forecast match that lacks a confirmed result.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frololego/Prikoliga/internal/metrics"
	"github.com/frololego/Prikoliga/internal/sstats"
)

// DefaultStaleAfter caps upstream call volume: at most one refresh cycle per
// window no matter how many leaderboard requests arrive.
const DefaultStaleAfter = time.Hour

const defaultWorkers = 4

// ForecastSource enumerates matches worth refreshing.
type ForecastSource interface {
	// MatchIDsWithoutResult returns matches that have forecasts but no
	// confirmed result.
	MatchIDsWithoutResult(ctx context.Context) ([]int64, error)
}

// OutcomeSink reads the freshness watermark and stores confirmed results.
type OutcomeSink interface {
	NewestRefresh(ctx context.Context) (t time.Time, ok bool, err error)
	Put(ctx context.Context, matchID int64, homeGoals, awayGoals int) error
}

// ResultClient fetches one confirmed score from the upstream provider.
type ResultClient interface {
	GetGameResult(ctx context.Context, matchID int64) (sstats.Result, error)
}

// Report summarizes one EnsureFresh call.
type Report struct {
	Ran         bool          `json:"ran"`       // false when cache was still fresh
	Attempted   int           `json:"attempted"` // upstream fetches issued
	Updated     int           `json:"updated"`   // results written
	NotFinished int           `json:"not_finished"`
	Failed      int           `json:"failed"` // skipped, retried next stale window
	Duration    time.Duration `json:"duration"`
}

// Summary returns a human-readable summary.
func (r Report) Summary() string {
	return fmt.Sprintf("ran=%v attempted=%d updated=%d not_finished=%d failed=%d dur=%s",
		r.Ran, r.Attempted, r.Updated, r.NotFinished, r.Failed, r.Duration.Round(time.Millisecond))
}

// Syncer is the staleness policy plus the refresh cycle.
type Syncer struct {
	mu sync.Mutex // single-flight: one in-flight refresh cycle

	forecasts  ForecastSource
	outcomes   OutcomeSink
	client     ResultClient
	staleAfter time.Duration
	workers    int
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option applies a configuration option to the Syncer.
type Option func(*Syncer)

// WithStaleAfter overrides the staleness threshold.
func WithStaleAfter(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithWorkers sets the upstream fetch concurrency of one cycle.
func WithWorkers(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Syncer) { s.metrics = m }
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Syncer.
func New(forecasts ForecastSource, outcomes OutcomeSink, client ResultClient, logger *slog.Logger, opts ...Option) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Syncer{
		forecasts:  forecasts,
		outcomes:   outcomes,
		client:     client,
		staleAfter: DefaultStaleAfter,
		workers:    defaultWorkers,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureFresh runs a refresh cycle when the newest stored result is older
// than the staleness threshold, or when no result exists yet. Per-fixture
// upstream failures never fail the call; they are logged, counted, and
// retried on the next stale window. The returned error covers only local
// store failures.
//
// Concurrent callers serialize on a single in-flight cycle: the later caller
// re-checks freshness after the earlier cycle completes and usually no-ops.
func (s *Syncer) EnsureFresh(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale, err := s.isStale(ctx)
	if err != nil {
		return Report{}, err
	}
	if !stale {
		if s.metrics != nil {
			s.metrics.RefreshNoops.Inc()
		}
		s.logger.Debug("Results fresh, refresh skipped")
		return Report{}, nil
	}

	return s.refresh(ctx)
}

// ForceRefresh runs a cycle regardless of freshness. Used by the ops CLI and
// the explicit refresh endpoint.
func (s *Syncer) ForceRefresh(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

func (s *Syncer) isStale(ctx context.Context) (bool, error) {
	newest, ok, err := s.outcomes.NewestRefresh(ctx)
	if err != nil {
		return false, fmt.Errorf("check result freshness: %w", err)
	}
	if !ok {
		return true, nil
	}
	return s.now().Sub(newest) > s.staleAfter, nil
}

// refresh fetches every forecast match without a confirmed result through a
// bounded worker pool and stores the confirmed scores. Caller holds s.mu.
func (s *Syncer) refresh(ctx context.Context) (Report, error) {
	start := s.now()
	report := Report{Ran: true}

	ids, err := s.forecasts.MatchIDsWithoutResult(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list unresolved matches: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RefreshCycles.Inc()
	}
	if len(ids) == 0 {
		s.logger.Info("No unresolved matches to refresh")
		report.Duration = s.now().Sub(start)
		return report, nil
	}

	s.logger.Info("Refreshing match results", "matches", len(ids))

	workers := s.workers
	if workers > len(ids) {
		workers = len(ids)
	}

	ch := make(chan int64, len(ids))
	for _, id := range ids {
		ch <- id
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ch {
				outcome := s.fetchOne(ctx, id)
				mu.Lock()
				report.Attempted++
				switch outcome {
				case fetchUpdated:
					report.Updated++
				case fetchNotFinished:
					report.NotFinished++
				case fetchFailed:
					report.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	report.Duration = s.now().Sub(start)

	if s.metrics != nil {
		s.metrics.FixturesAttempted.Add(float64(report.Attempted))
		s.metrics.OutcomesWritten.Add(float64(report.Updated))
		s.metrics.UpstreamFailures.Add(float64(report.Failed))
	}

	s.logger.Info("Refresh cycle complete", "summary", report.Summary())
	return report, nil
}

type fetchOutcome int

const (
	fetchUpdated fetchOutcome = iota
	fetchNotFinished
	fetchFailed
)

// fetchOne pulls and stores a single match result. Failures stay local: the
// match remains unconfirmed and the next stale cycle retries it.
func (s *Syncer) fetchOne(ctx context.Context, matchID int64) fetchOutcome {
	res, err := s.client.GetGameResult(ctx, matchID)
	if err != nil {
		s.logger.Warn("Result fetch failed", "match_id", matchID, "error", err)
		return fetchFailed
	}
	if !res.Confirmed {
		s.logger.Debug("Match not finished yet", "match_id", matchID)
		return fetchNotFinished
	}
	if err := s.outcomes.Put(ctx, matchID, res.Home, res.Away); err != nil {
		s.logger.Error("Result store failed", "match_id", matchID, "error", err)
		return fetchFailed
	}
	s.logger.Info("Result stored", "match_id", matchID, "score", fmt.Sprintf("%d:%d", res.Home, res.Away))
	return fetchUpdated
}
