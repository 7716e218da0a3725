// Package metrics holds the Prometheus instruments for ranking calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RankRequests counts completed ranking calls by engine and final method.
	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "path2prep_rank_requests_total",
			Help: "Total number of ranking calls by engine and scoring method",
		},
		[]string{"engine", "method"},
	)

	// BackendFailures counts backends excluded from a call after an error.
	BackendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "path2prep_backend_failures_total",
			Help: "Total number of scoring backend failures by engine and backend",
		},
		[]string{"engine", "backend"},
	)

	// RankDuration observes ranking latency.
	RankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "path2prep_rank_duration_seconds",
			Help:    "Duration of ranking calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	// EmbeddingCacheLookups counts embedding cache hits and misses.
	EmbeddingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "path2prep_embedding_cache_lookups_total",
			Help: "Total number of embedding cache lookups by result",
		},
		[]string{"result"}, // "memory", "store", "miss"
	)
)

// RecordRank records one finished ranking call.
func RecordRank(engine, method string, start time.Time) {
	RankRequests.WithLabelValues(engine, method).Inc()
	RankDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
}

// RecordBackendFailure records one backend failure.
func RecordBackendFailure(engine, backend string) {
	BackendFailures.WithLabelValues(engine, backend).Inc()
}

// RecordCacheLookup records one embedding cache lookup.
func RecordCacheLookup(result string) {
	EmbeddingCacheLookups.WithLabelValues(result).Inc()
}
