// Package metrics provides Prometheus collectors for the scoring core and
// the HTTP layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prikoliga"

// Metrics owns a dedicated registry so the default Go collectors do not
// pollute the scrape output.
type Metrics struct {
	registry *prometheus.Registry

	// Result synchronization
	RefreshCycles     prometheus.Counter
	RefreshNoops      prometheus.Counter
	FixturesAttempted prometheus.Counter
	OutcomesWritten   prometheus.Counter
	UpstreamFailures  prometheus.Counter

	// HTTP
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RefreshCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync",
			Name: "refresh_cycles_total",
			Help: "Refresh cycles that actually ran.",
		}),
		RefreshNoops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync",
			Name: "refresh_noops_total",
			Help: "EnsureFresh calls answered from fresh cached results.",
		}),
		FixturesAttempted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync",
			Name: "fixtures_attempted_total",
			Help: "Upstream result fetches attempted.",
		}),
		OutcomesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync",
			Name: "outcomes_written_total",
			Help: "Confirmed results written to the outcome store.",
		}),
		UpstreamFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync",
			Name: "upstream_failures_total",
			Help: "Per-fixture upstream fetch failures (retried next cycle).",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http",
			Name: "requests_total",
			Help: "HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http",
			Name:    "request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
