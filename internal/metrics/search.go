package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "searches_total",
			Help:      "Total number of searches by the stage that produced the response",
		},
		[]string{"stage"},
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fusedex",
			Name:      "search_stage_duration_seconds",
			Help:      "Search stage duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)

	SearchFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "search_fallbacks_total",
			Help:      "Total number of stage fallbacks",
		},
		[]string{"stage", "reason"}, // reason: "backend_error" / "embedding_error" / "empty"
	)

	CollectionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "collection_cache_total",
			Help:      "Collection handle cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CollectionCacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "collection_cache_evictions_total",
			Help:      "Total collection handles evicted from the cache",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(SearchFallbacksTotal)
	prometheus.MustRegister(CollectionCacheTotal)
	prometheus.MustRegister(CollectionCacheEvictions)
	searchMetricsRegistered = true
}
