package fusedex

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// stubStore is a function-field db.Store for facade tests. Unset functions
// report empty results.
type stubStore struct {
	keywordFn  func(ctx context.Context, q *db.KeywordQuery) (*db.KeywordResult, error)
	vectorFn   func(ctx context.Context, q *db.VectorQuery) (*db.VectorResult, error)
	explicitFn func(ctx context.Context, collection string) ([]db.FieldSpec, error)
	dynamicFn  func(ctx context.Context, collection string) ([]db.FieldSpec, error)
	sampleFn   func(ctx context.Context, collection string, n int) ([]string, error)

	size    int
	evicted []string
	cleared bool
}

func (s *stubStore) Ping(context.Context) error                      { return nil }
func (s *stubStore) Close()                                          {}
func (s *stubStore) WaitForReady(context.Context, time.Duration) error { return nil }

func (s *stubStore) SearchKeyword(ctx context.Context, q *db.KeywordQuery) (*db.KeywordResult, error) {
	if s.keywordFn == nil {
		return &db.KeywordResult{}, nil
	}
	return s.keywordFn(ctx, q)
}

func (s *stubStore) SearchVector(ctx context.Context, q *db.VectorQuery) (*db.VectorResult, error) {
	if s.vectorFn == nil {
		return &db.VectorResult{}, nil
	}
	return s.vectorFn(ctx, q)
}

func (s *stubStore) ExplicitFields(ctx context.Context, collection string) ([]db.FieldSpec, error) {
	if s.explicitFn == nil {
		return nil, nil
	}
	return s.explicitFn(ctx, collection)
}

func (s *stubStore) DynamicFields(ctx context.Context, collection string) ([]db.FieldSpec, error) {
	if s.dynamicFn == nil {
		return nil, nil
	}
	return s.dynamicFn(ctx, collection)
}

func (s *stubStore) SampleFields(ctx context.Context, collection string, n int) ([]string, error) {
	if s.sampleFn == nil {
		return nil, nil
	}
	return s.sampleFn(ctx, collection, n)
}

func (s *stubStore) CacheSize() int { return s.size }

func (s *stubStore) CacheEvict(collection string) bool {
	s.evicted = append(s.evicted, collection)
	return true
}

func (s *stubStore) CacheClear() { s.cleared = true }

// docEntry builds a scored keyword entry with id and title fields.
func docEntry(id string, score float64) db.SearchEntry {
	return db.SearchEntry{
		ID:         id,
		Score:      score,
		Scored:     true,
		FieldNames: []string{"id", "title"},
		Fields:     map[string]any{"id": id, "title": "doc " + id},
	}
}

// newTestClient wires a Client over a stub store, skipping the readiness poll.
func newTestClient(t *testing.T, store db.Store, opts ...Option) *Client {
	t.Helper()

	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		t.Fatalf("wire client: %v", err)
	}
	return c
}

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockChat struct {
	fn func(ctx context.Context, system, user string) (string, error)
}

func (m *mockChat) Complete(ctx context.Context, system, user string) (string, error) {
	return m.fn(ctx, system, user)
}
