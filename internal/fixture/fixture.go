// Package fixture is the match catalog: scheduled contests imported from the
// upstream provider. The scoring core only ever reads it.
package fixture

import (
	"errors"
	"time"
)

// Lifecycle statuses. The catalog never tracks live scores; a match is
// either scheduled or known to have finished upstream.
const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
)

// ErrNotFound is returned for match IDs absent from the catalog.
var ErrNotFound = errors.New("match not found")

// Fixture is one scheduled contest.
type Fixture struct {
	MatchID    int64     `json:"match_id"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	UTCDate    time.Time `json:"utcDate"`
	Status     string    `json:"status"`
	LeagueName string    `json:"leagueName"`
	Country    string    `json:"country"`
	Round      string    `json:"round"`
	Year       int       `json:"year"`
}

// League identifies an upstream competition the catalog imports.
type League struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Leagues is the fixed competition registry the catalog covers.
var Leagues = []League{
	{ID: 235, Name: "Premier League", Country: "Russia"},
	{ID: 236, Name: "First League", Country: "Russia"},
	{ID: 651, Name: "Second League - Group 1", Country: "Russia"},
	{ID: 652, Name: "Second League - Group 2", Country: "Russia"},
	{ID: 650, Name: "Second League - Group 3", Country: "Russia"},
	{ID: 653, Name: "Second League - Group 4", Country: "Russia"},

	{ID: 1025, Name: "Second League A - Fall Season Gold", Country: "Russia"},
	{ID: 1026, Name: "Second League A - Fall Season Silver", Country: "Russia"},
	{ID: 1121, Name: "Second League A - Promotion Play-offs", Country: "Russia"},
	{ID: 1061, Name: "Second League A - Spring Season Gold", Country: "Russia"},
	{ID: 1064, Name: "Second League A - Spring Season Silver", Country: "Russia"},

	{ID: 237, Name: "Cup", Country: "Russia"},
	{ID: 663, Name: "Super Cup", Country: "Russia"},

	{ID: 2, Name: "UEFA Champions League", Country: "World"},
	{ID: 3, Name: "UEFA Europa League", Country: "World"},
	{ID: 848, Name: "UEFA Europa Conference League", Country: "World"},

	{ID: 4, Name: "UEFA Championship", Country: "World"},
	{ID: 1040, Name: "UEFA Championship - Qualification", Country: "World"},

	{ID: 1, Name: "World Cup", Country: "World"},
	{ID: 36, Name: "World Cup - Qualification Europe", Country: "World"},
}

// LeagueByID looks up a competition in the registry.
func LeagueByID(id int) (League, bool) {
	for _, l := range Leagues {
		if l.ID == id {
			return l, true
		}
	}
	return League{}, false
}
