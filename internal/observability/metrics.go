// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulse_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EngagementToggles counts engagement mutations by action and direction.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_engagement_toggles_total",
		Help: "Total engagement mutations by action (like/save/share) and direction (add/remove/noop)",
	}, []string{"action", "direction"})

	// NotificationDispatches counts notification dispatch outcomes by kind.
	// Dispatch failures are swallowed by design, so this counter is the only
	// place they remain visible.
	NotificationDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_notification_dispatches_total",
		Help: "Total notification dispatch attempts by kind and outcome",
	}, []string{"kind", "outcome"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
