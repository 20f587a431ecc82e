// Package metrics provides Prometheus metrics for the validation pipeline
// and the engine lifecycle. Metrics are registered on the default registry;
// exposing them is the embedder's concern.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for validation and connect outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// SchemaValidations counts validation passes by outcome.
	SchemaValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quarry_schema_validations_total",
		Help: "Total schema validation passes by outcome.",
	}, []string{"outcome"})

	// ConnectAttempts counts engine connect attempts by provider and outcome.
	ConnectAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quarry_connect_attempts_total",
		Help: "Total engine connect attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	// QueryDuration tracks query dispatch latency by action.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quarry_query_duration_seconds",
		Help:    "Query dispatch latency by action.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
)

// ObserveQuery records one query dispatch.
func ObserveQuery(action string, start time.Time) {
	QueryDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
