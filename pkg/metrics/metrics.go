// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks backend API request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Backend API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestsTotal tracks total backend API requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total backend API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// MessagesSentTotal tracks send outcomes.
	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total message send attempts by outcome",
		},
		[]string{"status"},
	)

	// PendingMessages tracks messages awaiting server confirmation.
	PendingMessages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_messages",
			Help: "Messages currently awaiting server confirmation",
		},
	)

	// ConversationsDedupedTotal tracks duplicate conversation rows collapsed
	// by the conversation store.
	ConversationsDedupedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_deduped_total",
			Help: "Duplicate conversation rows collapsed on display",
		},
	)

	// RefreshRunsTotal tracks scheduled refresh executions.
	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Scheduled refresh executions by outcome",
		},
		[]string{"status"},
	)

	// RosterSize tracks the size of the loaded student roster.
	RosterSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roster_size",
			Help: "Student profiles currently loaded in the roster",
		},
	)
)

// RecordRequest records metrics for a backend API request.
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// RecordSend records the outcome of a message send attempt.
func RecordSend(status string) {
	MessagesSentTotal.WithLabelValues(status).Inc()
}
