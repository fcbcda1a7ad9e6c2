package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/frololego/Prikoliga/internal/api/respond"
	"github.com/frololego/Prikoliga/internal/fixture"
	"github.com/frololego/Prikoliga/internal/forecast"
)

// submitRequest is the body of POST /api/predictions. The forecast travels in
// the frontend's "home:away" wire format.
type submitRequest struct {
	Username string `json:"username"`
	MatchID  int64  `json:"match_id"`
	Forecast string `json:"forecast"`
}

// SubmitPrediction stores or updates a forecast.
func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", "Request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.MatchID == 0 || req.Forecast == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", "username, match_id, and forecast are required")
		return
	}

	created, err := h.deps.Submit.Submit(r.Context(), req.Username, req.MatchID, req.Forecast)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	message := "Forecast updated"
	if created {
		message = "Forecast saved"
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"created": created,
		"message": message,
	})
}

// predictionView is one row of the user's predictions listing: the forecast
// joined with catalog and result data where available.
type predictionView struct {
	forecast.Forecast
	Scoreline  string     `json:"forecast"`
	HomeTeam   string     `json:"homeTeam,omitempty"`
	AwayTeam   string     `json:"awayTeam,omitempty"`
	MatchDate  *time.Time `json:"matchDate,omitempty"`
	ActualHome *int       `json:"actualHome,omitempty"`
	ActualAway *int       `json:"actualAway,omitempty"`
}

// GetUserPredictions lists a user's forecasts joined with matches and any
// confirmed results. Results are refreshed first when stale, mirroring the
// aggregate view, so a returning user sees finished scores without waiting
// for the next leaderboard request.
func (h *Handler) GetUserPredictions(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", "username query parameter is required")
		return
	}

	if _, err := h.deps.Refresher.EnsureFresh(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	forecasts, err := h.deps.Forecasts.ListByUser(r.Context(), username)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	matchIDs := make([]int64, 0, len(forecasts))
	for _, f := range forecasts {
		matchIDs = append(matchIDs, f.MatchID)
	}
	results, err := h.deps.Outcomes.ByMatchIDs(r.Context(), matchIDs)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	views := make([]predictionView, 0, len(forecasts))
	for _, f := range forecasts {
		v := predictionView{Forecast: f, Scoreline: f.Scoreline()}
		if m, err := h.deps.Catalog.Get(r.Context(), f.MatchID); err == nil {
			v.HomeTeam = m.HomeTeam
			v.AwayTeam = m.AwayTeam
			d := m.UTCDate
			v.MatchDate = &d
		} else if !errors.Is(err, fixture.ErrNotFound) {
			writeCoreError(w, err)
			return
		}
		if res, ok := results[f.MatchID]; ok {
			home, away := res.HomeGoals, res.AwayGoals
			v.ActualHome = &home
			v.ActualAway = &away
		}
		views = append(views, v)
	}

	respond.WriteJSONObject(w, http.StatusOK, views)
}
