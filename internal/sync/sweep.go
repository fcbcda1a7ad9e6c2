package sync

import (
	"context"
	"log/slog"
	"time"
)

// StartSweep runs EnsureFresh on a fixed interval so results converge even
// when no leaderboard request arrives for a while. The staleness threshold
// still bounds upstream volume: a sweep against fresh results is a no-op.
// Blocks until ctx is cancelled. Intended to be called with `go`.
func StartSweep(ctx context.Context, s *Syncer, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Result sweep started", "interval", interval)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			report, err := s.EnsureFresh(ctx)
			if err != nil {
				logger.Error("Sweep refresh failed", "error", err)
				continue
			}
			if report.Ran {
				logger.Info("Sweep refresh complete", "summary", report.Summary())
			}
		case <-ctx.Done():
			logger.Info("Result sweep stopped")
			return
		}
	}
}
