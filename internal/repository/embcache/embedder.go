package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/fusedex/internal/domain"
)

// DefaultCapacity bounds the in-memory embedding cache when none is given.
const DefaultCapacity = 1024

// CachedEmbedder caches query embeddings in memory, keyed by text digest.
// Identical queries across requests skip the provider round trip entirely.
type CachedEmbedder struct {
	inner      domain.Embedder
	entries    *lru.Cache[string, []float32]
	cacheTotal *prometheus.CounterVec
}

// New creates a caching decorator. capacity <= 0 uses DefaultCapacity.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner domain.Embedder, capacity int, cacheTotal *prometheus.CounterVec) (*CachedEmbedder, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner embedder is required")
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	entries, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &CachedEmbedder{inner: inner, entries: entries, cacheTotal: cacheTotal}, nil
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full EmbeddingResult from inner.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cacheKey(text)

	if vec, ok := c.entries.Get(key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: cloneVector(vec)}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.entries.Add(key, cloneVector(result.Embedding))
	return result, nil
}

// Len reports the number of cached embeddings.
func (c *CachedEmbedder) Len() int {
	return c.entries.Len()
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// cloneVector guards cached vectors against caller mutation.
func cloneVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
