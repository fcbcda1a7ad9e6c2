package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/frololego/Prikoliga/internal/api/respond"
)

// GetAnalytics serves the full leaderboard. Cached results are refreshed
// first when stale; an empty leaderboard is a valid 200 with an empty array,
// distinct from system unavailability.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.Refresher.EnsureFresh(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	summaries, err := h.deps.Board.Compute(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, summaries)
}

// GetUserAnalytics serves a single user's summary for the "my stats" view.
func (h *Handler) GetUserAnalytics(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", "username is required")
		return
	}

	if _, err := h.deps.Refresher.EnsureFresh(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	summary, err := h.deps.Board.ComputeUser(r.Context(), username)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, summary)
}

// RefreshResults forces a refresh cycle and returns its report. Meant for
// operators; per-fixture upstream failures are reflected in the report, not
// as an error status.
func (h *Handler) RefreshResults(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Refresher.ForceRefresh(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}
