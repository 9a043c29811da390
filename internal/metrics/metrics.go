// Package metrics holds the Prometheus instruments exported on /metrics.
// All instruments are registered on the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BroadcastsTotal counts broadcast attempts by outcome
	// (broadcasted, fee-not-paid, missing-coordinates, already-broadcasted).
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadside_broadcasts_total",
			Help: "Total number of job broadcast attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// BroadcastCandidates observes how many eligible candidates each
	// successful broadcast reached.
	BroadcastCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roadside_broadcast_candidates",
			Help:    "Number of eligible candidates per successful broadcast.",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 30},
		},
	)

	// NotificationsTotal counts push deliveries by status (delivered, failed).
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadside_notifications_total",
			Help: "Total number of dispatch push notifications by delivery status.",
		},
		[]string{"status"},
	)

	// DeadTokensClearedTotal counts push tokens removed after the push
	// service reported them permanently unusable.
	DeadTokensClearedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roadside_dead_push_tokens_cleared_total",
			Help: "Total number of dead push tokens cleared from providers.",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by path, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadside_http_requests_total",
			Help: "Total number of HTTP requests handled by the service.",
		},
		[]string{"path", "method", "code"},
	)
)
