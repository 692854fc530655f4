// Package telemetry registers the Prometheus metrics exposed on /metrics.
//
// HTTP metrics are labelled by the echo route template (for example
// /api/products/:id), never the raw URL, so user supplied path segments
// cannot blow up label cardinality.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uttianguis_http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uttianguis_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// AuthFailuresTotal counts rejected API key authentications by reason.
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uttianguis_auth_failures_total",
			Help: "API key authentications rejected, by reason.",
		},
		[]string{"reason"},
	)

	// ModerationTransitionsTotal counts moderation decisions by entity and action.
	ModerationTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uttianguis_moderation_transitions_total",
			Help: "Moderation decisions applied, by entity (product, report, user) and action.",
		},
		[]string{"entity", "action"},
	)

	// RateLimitedTotal counts requests refused by the auth rate limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uttianguis_rate_limited_total",
			Help: "Requests refused by the authentication rate limiter.",
		},
	)
)
