package sstats

import (
	"context"
	"fmt"
	"time"
)

// Result is the variant outcome of a single-game lookup. Confirmed=false
// means the provider knows the game but has no final score yet. Not an
// error, the game is retried on a later refresh cycle.
type Result struct {
	Confirmed bool
	Home      int
	Away      int
}

// gameResponse mirrors the provider's GET /games/{id} payload.
type gameResponse struct {
	Status string `json:"status"`
	Data   struct {
		Game struct {
			ID         int64 `json:"id"`
			HomeResult *int  `json:"homeResult"`
			AwayResult *int  `json:"awayResult"`
		} `json:"game"`
	} `json:"data"`
}

// GetGameResult fetches the confirmed final score of one game. Null scores
// in the payload mean the game has not finished.
func (c *Client) GetGameResult(ctx context.Context, matchID int64) (Result, error) {
	var resp gameResponse
	if err := c.get(ctx, fmt.Sprintf("/games/%d", matchID), nil, &resp); err != nil {
		return Result{}, err
	}
	if resp.Status != "OK" {
		return Result{}, fmt.Errorf("game %d: provider status %q", matchID, resp.Status)
	}

	game := resp.Data.Game
	if game.HomeResult == nil || game.AwayResult == nil {
		return Result{Confirmed: false}, nil
	}
	if *game.HomeResult < 0 || *game.AwayResult < 0 {
		return Result{}, fmt.Errorf("game %d: negative score %d:%d", matchID, *game.HomeResult, *game.AwayResult)
	}
	return Result{Confirmed: true, Home: *game.HomeResult, Away: *game.AwayResult}, nil
}

// Game is one entry of the paginated games list, already mapped to the
// catalog's vocabulary.
type Game struct {
	ID       int64
	HomeTeam string
	AwayTeam string
	UTCDate  time.Time
	Finished bool
	Round    string
	Year     int
}

// Provider status code for a finished game.
const statusFinished = 8
