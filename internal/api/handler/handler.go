// Package handler provides HTTP handlers for all API endpoints. Handlers are
// thin: they validate transport-level input, call the scoring core, and map
// core errors onto the wire taxonomy.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/frololego/Prikoliga/internal/api/respond"
	"github.com/frololego/Prikoliga/internal/cache"
	"github.com/frololego/Prikoliga/internal/config"
	"github.com/frololego/Prikoliga/internal/fixture"
	"github.com/frololego/Prikoliga/internal/forecast"
	"github.com/frololego/Prikoliga/internal/leaderboard"
	"github.com/frololego/Prikoliga/internal/outcome"
	"github.com/frololego/Prikoliga/internal/sync"
)

// Submitter is the forecast write path.
type Submitter interface {
	Submit(ctx context.Context, username string, matchID int64, scoreline string) (created bool, err error)
}

// Refresher keeps cached results fresh.
type Refresher interface {
	EnsureFresh(ctx context.Context) (sync.Report, error)
	ForceRefresh(ctx context.Context) (sync.Report, error)
}

// Board computes leaderboard rows.
type Board interface {
	Compute(ctx context.Context) ([]leaderboard.UserSummary, error)
	ComputeUser(ctx context.Context, username string) (leaderboard.UserSummary, error)
}

// ForecastReader lists a user's stored forecasts.
type ForecastReader interface {
	ListByUser(ctx context.Context, username string) ([]forecast.Forecast, error)
}

// Catalog reads the match catalog.
type Catalog interface {
	Get(ctx context.Context, matchID int64) (*fixture.Fixture, error)
	List(ctx context.Context) ([]fixture.Fixture, error)
}

// OutcomeReader fetches confirmed results for a set of matches.
type OutcomeReader interface {
	ByMatchIDs(ctx context.Context, matchIDs []int64) (map[int64]outcome.Outcome, error)
}

// HealthChecker verifies storage connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps bundles everything the handlers call.
type Deps struct {
	Submit    Submitter
	Refresher Refresher
	Board     Board
	Forecasts ForecastReader
	Catalog   Catalog
	Outcomes  OutcomeReader
	Health    HealthChecker
	Cache     *cache.Cache
	Config    *config.Config
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	deps Deps
}

// New creates a Handler with shared dependencies.
func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Prikoliga API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Health.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.deps.Cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
