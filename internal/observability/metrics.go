package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecthub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// StreamComposeLatency records how long stream composition takes by stream kind.
	StreamComposeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecthub_stream_compose_seconds",
		Help:    "Stream composition latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// StreamSize records the number of entries returned per stream request.
	StreamSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecthub_stream_entries",
		Help:    "Number of entries returned per stream request",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	}, []string{"kind"})

	// RelationshipChanges counts follow graph mutations by action and outcome.
	RelationshipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_relationship_changes_total",
		Help: "Follow graph mutations by action and outcome",
	}, []string{"action", "outcome"})
)

// ObserveQuery records the latency of a database query started at start.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}

// ObserveStream records latency and size for one composed stream.
func ObserveStream(kind string, start time.Time, entries int) {
	StreamComposeLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	StreamSize.WithLabelValues(kind).Observe(float64(entries))
}
