package embcache

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fusedex/internal/domain"
)

// mockEmbedder counts calls and returns a fixed result.
type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

func newTestCachedEmbedder(t *testing.T, inner domain.Embedder, capacity int) *CachedEmbedder {
	t.Helper()
	ce, err := New(inner, capacity, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ce
}

func testResult(vec []float32, tokens int) domain.EmbeddingResult {
	return domain.EmbeddingResult{Embedding: vec, PromptTokens: tokens, TotalTokens: tokens}
}
