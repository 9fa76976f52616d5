// Package observability exposes the Prometheus metrics of the tracking
// engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// TrackingTransitions counts committed transitions by kind
	// (start, stop, side, workspace_switch).
	TrackingTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rolltime",
		Subsystem: "tracking",
		Name:      "transitions_total",
		Help:      "Committed tracking transitions by kind.",
	}, []string{"kind"})

	// PrunedIntervals counts intervals discarded for being shorter than
	// the configured minimum.
	PrunedIntervals = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rolltime",
		Subsystem: "tracking",
		Name:      "pruned_intervals_total",
		Help:      "Intervals discarded as shorter than the minimum duration.",
	})

	// HTTPRequestDuration observes request latency by method and status.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rolltime",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})

	// IntervalDuration observes the length of stopped intervals.
	IntervalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rolltime",
		Subsystem: "tracking",
		Name:      "interval_duration_seconds",
		Help:      "Duration of stopped tracking intervals.",
		Buckets:   []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800},
	})
)

func init() {
	prometheus.MustRegister(TrackingTransitions, PrunedIntervals, HTTPRequestDuration, IntervalDuration)
}
