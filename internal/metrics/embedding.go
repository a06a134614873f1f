package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding pipeline collectors. Request/latency/token counters are driven
// by the transport layer, the budget gauge by the instrumented embedder.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "embedding_requests_total",
			Help:      "Embedding requests by provider, model and status",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fusedex",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "embedding_tokens_total",
			Help:      "Embedding tokens consumed, split by prompt/total",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "embedding_errors_total",
			Help:      "Embedding errors by class",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fusedex",
			Name:      "embedding_budget_tokens_remaining",
			Help:      "Tokens left in the embedding budget window",
		},
		[]string{"provider", "period"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fusedex",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by result",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var embMetricsRegistered bool

// RegisterEmbeddingMetrics registers the embedding collectors. Call it once
// from main; repeated calls are no-ops so test binaries can share it.
func RegisterEmbeddingMetrics() {
	if embMetricsRegistered {
		return
	}
	embMetricsRegistered = true
	prometheus.MustRegister(
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingErrorsTotal,
		EmbeddingBudgetTokensRemaining,
		EmbeddingCacheTotal,
	)
}
