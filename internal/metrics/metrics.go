// Package metrics registers the Prometheus metrics used by the hook
// registry. Import this package (via blank import) from the server entry
// point to register all metrics before the /metrics handler is mounted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry-level counters and histograms.
var (
	// RegistrationsTotal counts bundle registrations labelled by extension
	// point and position directive.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooks_registrations_total",
			Help: "Total number of hook bundles registered.",
		},
		[]string{"key", "position"},
	)

	// PhaseExecutionsTotal counts completed phase invocations labelled by
	// phase, extension point, and outcome ("success", "error").
	PhaseExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooks_phase_executions_total",
			Help: "Total number of phase invocations executed by the registry.",
		},
		[]string{"phase", "key", "status"},
	)

	// PhaseDuration observes the wall-clock duration of one phase invocation
	// for one extension point, in seconds.
	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hooks_phase_duration_seconds",
			Help:    "Phase invocation duration in seconds.",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"phase", "key"},
	)

	// RateLimitRejections counts runs rejected by the rate-limit hook,
	// labelled by extension point.
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooks_rate_limit_rejections_total",
			Help: "Total runs rejected by the rate-limit hook.",
		},
		[]string{"key"},
	)
)
