// Package metrics holds the consumption counters of a usage report.
package metrics

// Metrics counts embedding API consumption within one report window.
type Metrics struct {
	embeddingRequests int
	tokens            int
}

// New creates a counters snapshot.
func New(requests, tokens int) Metrics {
	return Metrics{embeddingRequests: requests, tokens: tokens}
}

// EmbeddingRequests returns how many embedding calls were made.
func (m Metrics) EmbeddingRequests() int { return m.embeddingRequests }

// Tokens returns how many tokens those calls consumed.
func (m Metrics) Tokens() int { return m.tokens }
