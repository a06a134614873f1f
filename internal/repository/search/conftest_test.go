package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKeywordFn func(ctx context.Context, q *db.KeywordQuery) (*db.KeywordResult, error)
	searchVectorFn  func(ctx context.Context, q *db.VectorQuery) (*db.VectorResult, error)
}

func (m *mockStore) SearchKeyword(ctx context.Context, q *db.KeywordQuery) (*db.KeywordResult, error) {
	if m.searchKeywordFn != nil {
		return m.searchKeywordFn(ctx, q)
	}
	return &db.KeywordResult{}, nil
}

func (m *mockStore) SearchVector(ctx context.Context, q *db.VectorQuery) (*db.VectorResult, error) {
	if m.searchVectorFn != nil {
		return m.searchVectorFn(ctx, q)
	}
	return &db.VectorResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

func testEntry(id string, score float64) db.SearchEntry {
	return db.SearchEntry{
		ID:         id,
		Score:      score,
		Scored:     true,
		FieldNames: []string{"id", "title"},
		Fields:     map[string]any{"id": id, "title": "doc " + id},
	}
}
