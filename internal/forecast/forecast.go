// Package forecast holds user predictions: one row per (username, match)
// pair with an atomic upsert write path.
package forecast

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Validation errors surfaced directly to the caller.
var (
	ErrBadScoreline = errors.New("scoreline must have the form \"home:away\" with non-negative integers")
	ErrMatchStarted = errors.New("match has already started, forecast can no longer change")
	ErrBlankUser    = errors.New("username must not be blank")
)

// Forecast is a user's predicted final score for one match.
type Forecast struct {
	Username    string    `json:"username"`
	MatchID     int64     `json:"match_id"`
	Home        int       `json:"home"`
	Away        int       `json:"away"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdateCount int       `json:"update_count"`
}

// Scoreline returns the prediction in the wire format the frontend submits.
func (f Forecast) Scoreline() string {
	return fmt.Sprintf("%d:%d", f.Home, f.Away)
}

var scorelineRe = regexp.MustCompile(`^(\d+):(\d+)$`)

// ParseScoreline parses the "home:away" wire format. Only plain decimal
// digits are accepted, so negatives and signs fail the match.
func ParseScoreline(s string) (home, away int, err error) {
	m := scorelineRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadScoreline, s)
	}
	home, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadScoreline, s)
	}
	away, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadScoreline, s)
	}
	return home, away, nil
}
