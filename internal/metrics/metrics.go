// Package metrics holds Prometheus instruments used across the client.  All
// collectors are registered with the global registry, so serving
// promhttp.Handler() is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for SubmissionsTotal.
const (
	OutcomeInvalid   = "invalid"
	OutcomeSkipped   = "skipped"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeDropped   = "dropped"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Submit gestures by form and outcome.",
		}, []string{"form", "outcome"})

	SubmissionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "form_submission_duration_seconds",
			Help:    "Time from request start until the backend settled.",
			Buckets: prometheus.DefBuckets,
		}, []string{"form"})

	SubmissionsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "form_submissions_in_flight",
			Help: "Submissions currently waiting on the backend.",
		})

	BackendPingErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backend_ping_errors_total",
			Help: "Cumulative number of failed backend status checks.",
		})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		SubmissionDuration,
		SubmissionsInFlight,
		BackendPingErrorsTotal,
	)
}
