package domain

import "context"

type embeddingUsageKey struct{}

// EmbeddingUsage accumulates per-request token consumption. The handler
// plants a mutable pointer in the context, the search service adds tokens
// after vectorizing the query, and the handler reads the sum back for the
// response headers.
type EmbeddingUsage struct {
	TotalTokens int
	Used        bool // set whenever embedding ran, even a 0-token cache hit
}

// NewContextWithUsage returns a child context carrying a fresh collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext returns the collector in ctx, or nil when absent.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// AddTokens records consumed tokens. Safe on a nil receiver so callers need
// no context checks.
func (u *EmbeddingUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}
