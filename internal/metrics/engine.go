package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "hunt"

// Search engine and sync Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "engine_requests_total",
			Help:      "Total number of search engine requests",
		},
		[]string{"op", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	SyncDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sync_documents_total",
			Help:      "Documents submitted to the engine by bulk sync",
		},
		[]string{"op"}, // "upsert" / "delete"
	)

	SyncItemErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sync_item_errors_total",
			Help:      "Bulk items rejected by the engine",
		},
	)

	HydrationSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "hydration_skipped_total",
			Help:      "Hits not rehydrated into records",
		},
		[]string{"reason"}, // "untyped" / "unknown_type" / "depth" / "invalid"
	)

	QuickSearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "quick_search_cache_total",
			Help:      "Quick search cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerEngineOnce sync.Once

// RegisterEngineMetrics registers engine, sync and cache metrics. Safe to call more than once.
func RegisterEngineMetrics() {
	registerEngineOnce.Do(func() {
		prometheus.MustRegister(
			EngineRequestsTotal,
			EngineRequestDuration,
			SyncDocumentsTotal,
			SyncItemErrorsTotal,
			HydrationSkippedTotal,
			QuickSearchCacheTotal,
		)
	})
}

// ObserveEngineRequest records one engine round trip.
func ObserveEngineRequest(op, status string, d time.Duration) {
	EngineRequestsTotal.WithLabelValues(op, status).Inc()
	EngineRequestDuration.WithLabelValues(op).Observe(d.Seconds())
}
