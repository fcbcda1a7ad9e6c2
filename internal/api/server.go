package api

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/frololego/Prikoliga/internal/api/handler"
	"github.com/frololego/Prikoliga/internal/config"
	"github.com/frololego/Prikoliga/internal/metrics"
)

// openapiSpec is the hand-maintained API description served to Swagger UI.
//
//go:embed openapi.json
var openapiSpec []byte

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps handler.Deps, m *metrics.Metrics, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(MetricsMiddleware(m))
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(deps)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Swagger UI over the embedded spec
	r.Get("/docs/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openapiSpec)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/openapi.json"),
	))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Forecasts
		r.Post("/predictions", h.SubmitPrediction)
		r.Get("/predictions", h.GetUserPredictions)

		// Leaderboard
		r.Get("/analytics", h.GetAnalytics)
		r.Get("/analytics/{username}", h.GetUserAnalytics)

		// Catalog
		r.Get("/matches", h.GetMatches)
		r.Get("/leagues", h.GetLeagues)

		// Operator refresh
		r.Post("/results/refresh", h.RefreshResults)
	})

	return r
}
