package sstats

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// listResponse mirrors the provider's GET /games/list payload.
type listResponse struct {
	Data []listGame `json:"data"`
}

type listGame struct {
	ID       int64 `json:"id"`
	HomeTeam *struct {
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam *struct {
		Name string `json:"name"`
	} `json:"awayTeam"`
	DateUTC   int64  `json:"dateUtc"` // unix seconds
	Status    int    `json:"status"`
	RoundName string `json:"roundName"`
	Season    *struct {
		Year int `json:"year"`
	} `json:"season"`
}

// Upstream pages hold up to 1000 games; a short page ends the pagination.
const listPageSize = 1000

// ListGames fetches every game of a league season, following the provider's
// offset pagination until a short page.
func (c *Client) ListGames(ctx context.Context, leagueID, year int) ([]Game, error) {
	var games []Game
	offset := 0

	for {
		params := url.Values{}
		params.Set("LeagueId", strconv.Itoa(leagueID))
		params.Set("Year", strconv.Itoa(year))
		params.Set("offset", strconv.Itoa(offset))

		var resp listResponse
		if err := c.get(ctx, "/games/list", params, &resp); err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			break
		}

		for _, g := range resp.Data {
			games = append(games, mapListGame(g))
		}

		offset += len(resp.Data)
		if len(resp.Data) < listPageSize {
			break
		}
	}

	c.logger.Debug("Listed games", "league_id", leagueID, "year", year, "count", len(games))
	return games, nil
}

func mapListGame(g listGame) Game {
	mapped := Game{
		ID:       g.ID,
		HomeTeam: "Unknown",
		AwayTeam: "Unknown",
		UTCDate:  time.Unix(g.DateUTC, 0).UTC(),
		Finished: g.Status == statusFinished,
		Round:    g.RoundName,
	}
	if g.HomeTeam != nil && g.HomeTeam.Name != "" {
		mapped.HomeTeam = g.HomeTeam.Name
	}
	if g.AwayTeam != nil && g.AwayTeam.Name != "" {
		mapped.AwayTeam = g.AwayTeam.Name
	}
	if g.Season != nil {
		mapped.Year = g.Season.Year
	} else {
		mapped.Year = time.Now().Year()
	}
	return mapped
}
