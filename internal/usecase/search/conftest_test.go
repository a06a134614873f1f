package search

import (
	"context"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
)

type mockRepo struct {
	searchKeywordFn func(ctx context.Context, collection, query, filter string, fields []string, rows int) (hit.KeywordPage, error)
	searchVectorFn  func(ctx context.Context, collection string, vector []float32, filter string, fields []string, k int) ([]hit.Hit, error)

	keywordCalls int
	vectorCalls  int
}

func (m *mockRepo) SearchKeyword(
	ctx context.Context, collection, query, filter string, fields []string, rows int,
) (hit.KeywordPage, error) {
	m.keywordCalls++
	if m.searchKeywordFn == nil {
		return hit.KeywordPage{}, nil
	}
	return m.searchKeywordFn(ctx, collection, query, filter, fields, rows)
}

func (m *mockRepo) SearchVector(
	ctx context.Context, collection string, vector []float32, filter string, fields []string, k int,
) ([]hit.Hit, error) {
	m.vectorCalls++
	if m.searchVectorFn == nil {
		return nil, nil
	}
	return m.searchVectorFn(ctx, collection, vector, filter, fields, k)
}

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

// scoredHit builds a backend-shaped hit with a score attached.
func scoredHit(id string, score float64) hit.Hit {
	return hit.Reconstruct(id,
		[]string{"id", "title"},
		map[string]any{"id": id, "title": "title " + id},
		score, true)
}

// unscoredHit builds a hit without a backend score.
func unscoredHit(id string) hit.Hit {
	return hit.Reconstruct(id,
		[]string{"id", "title"},
		map[string]any{"id": id, "title": "title " + id},
		0, false)
}

func keywordPage(hits ...hit.Hit) hit.KeywordPage {
	return hit.NewKeywordPage(hits, nil, "")
}
