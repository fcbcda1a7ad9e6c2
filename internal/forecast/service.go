package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Writer is the storage dependency of the submit path.
type Writer interface {
	Upsert(ctx context.Context, username string, matchID int64, home, away int) (created bool, err error)
}

// KickoffSource looks up the scheduled start of a match. Implementations
// return fixture.ErrNotFound for unknown matches.
type KickoffSource interface {
	StartTime(ctx context.Context, matchID int64) (time.Time, error)
}

// Service implements the forecast write path: validate, then atomically
// upsert.
type Service struct {
	writer  Writer
	kickoff KickoffSource
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates the submit service.
func NewService(writer Writer, kickoff KickoffSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{writer: writer, kickoff: kickoff, logger: logger, now: time.Now}
}

// Submit validates and stores a forecast given in the "home:away" wire
// format. The kickoff check runs against the current time on every call, so
// a forecast can never be created or changed once the match has started.
// Returns created=false when an existing forecast was updated.
func (s *Service) Submit(ctx context.Context, username string, matchID int64, scoreline string) (created bool, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, ErrBlankUser
	}

	home, away, err := ParseScoreline(scoreline)
	if err != nil {
		return false, err
	}

	start, err := s.kickoff.StartTime(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("look up match %d: %w", matchID, err)
	}
	if !start.After(s.now()) {
		return false, fmt.Errorf("match %d: %w", matchID, ErrMatchStarted)
	}

	created, err = s.writer.Upsert(ctx, username, matchID, home, away)
	if err != nil {
		return false, err
	}

	s.logger.Info("Forecast stored",
		"username", username, "match_id", matchID,
		"forecast", scoreline, "created", created)
	return created, nil
}
