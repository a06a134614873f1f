package fusedex

import (
	"context"
	"fmt"
)

// Hit is a typed search result.
type Hit[T any] struct {
	Item   T
	ID     string
	Score  float64
	Scored bool
}

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	ts *TypedSearch[T]

	query    string
	filter   string
	topK     int
	minScore float64
}

// Query sets the search text.
func (b *SearchBuilder[T]) Query(q string) *SearchBuilder[T] {
	b.query = q
	return b
}

// Filter sets a backend-native filter expression, passed through verbatim.
func (b *SearchBuilder[T]) Filter(expr string) *SearchBuilder[T] {
	b.filter = expr
	return b
}

// TopK sets the maximum number of results.
func (b *SearchBuilder[T]) TopK(n int) *SearchBuilder[T] {
	b.topK = n
	return b
}

// MinScore drops fused results scoring below the threshold.
func (b *SearchBuilder[T]) MinScore(score float64) *SearchBuilder[T] {
	b.minScore = score
	return b
}

// Do executes the search and returns typed results. Only the struct-mapped
// fields are requested from the backend.
func (b *SearchBuilder[T]) Do(ctx context.Context) ([]Hit[T], error) {
	opts := &SearchOptions{
		Filter:   b.filter,
		Fields:   b.ts.meta.fieldNames(),
		TopK:     b.topK,
		MinScore: b.minScore,
	}

	resp, err := b.ts.client.Search(b.ts.name).Query(ctx, b.query, opts)
	if err != nil {
		return nil, fmt.Errorf("typed search: %w", err)
	}
	return b.toHits(resp), nil
}

func (b *SearchBuilder[T]) toHits(resp *Response) []Hit[T] {
	hits := make([]Hit[T], 0, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		item, ok := b.ts.meta.fromFields(r.ID, r.Fields).(T)
		if !ok {
			continue
		}
		hits = append(hits, Hit[T]{
			Item:   item,
			ID:     r.ID,
			Score:  r.Score,
			Scored: r.Scored,
		})
	}
	return hits
}
