package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/fusedex/internal/db"
	"github.com/kailas-cloud/fusedex/internal/db/collcache"
	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
)

// store is the consumer interface for search sub-queries (ISP).
type store interface {
	SearchKeyword(ctx context.Context, q *db.KeywordQuery) (*db.KeywordResult, error)
	SearchVector(ctx context.Context, q *db.VectorQuery) (*db.VectorResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKeyword runs a lexical sub-query and adapts the backend page into
// domain hits plus the keyword-side facets and spell-check suggestion.
func (r *Repo) SearchKeyword(
	ctx context.Context, collection, query, filter string,
	fields []string, rows int,
) (hit.KeywordPage, error) {
	q := &db.KeywordQuery{
		Collection: collection,
		Query:      query,
		Filter:     filter,
		Fields:     fields,
		Rows:       rows,
	}

	kr, err := r.store.SearchKeyword(ctx, q)
	if err != nil {
		return hit.KeywordPage{}, translateErr("keyword", collection, err)
	}

	return hit.NewKeywordPage(toHits(kr.Entries), toFacets(kr.Facets), kr.Suggestion), nil
}

// SearchVector runs a KNN sub-query and adapts the backend entries.
func (r *Repo) SearchVector(
	ctx context.Context, collection string, vector []float32,
	filter string, fields []string, k int,
) ([]hit.Hit, error) {
	q := &db.VectorQuery{
		Collection: collection,
		Vector:     vector,
		Filter:     filter,
		Fields:     fields,
		K:          k,
	}

	vr, err := r.store.SearchVector(ctx, q)
	if err != nil {
		return nil, translateErr("vector", collection, err)
	}

	return toHits(vr.Entries), nil
}

// toHits adapts backend entries into domain hits, preserving the backend
// field order. Multi-valued values are flattened to their first element.
func toHits(entries []db.SearchEntry) []hit.Hit {
	if len(entries) == 0 {
		return nil
	}

	hits := make([]hit.Hit, 0, len(entries))
	for _, e := range entries {
		fields := make(map[string]any, len(e.Fields))
		for name, v := range e.Fields {
			fields[name] = flatten(v)
		}
		hits = append(hits, hit.Reconstruct(e.ID, e.FieldNames, fields, e.Score, e.Scored))
	}
	return hits
}

// flatten reduces a multi-valued backend value to its first element.
func flatten(v any) any {
	vs, ok := v.([]any)
	if !ok {
		return v
	}
	if len(vs) == 0 {
		return nil
	}
	return vs[0]
}

func toFacets(facets []db.FacetField) []hit.Facet {
	if len(facets) == 0 {
		return nil
	}

	out := make([]hit.Facet, 0, len(facets))
	for _, f := range facets {
		values := make([]hit.FacetValue, 0, len(f.Values))
		for _, v := range f.Values {
			values = append(values, hit.NewFacetValue(v.Value, v.Count))
		}
		out = append(out, hit.NewFacet(f.Field, values))
	}
	return out
}

// translateErr maps db layer failures onto the domain error taxonomy.
func translateErr(source, collection string, err error) error {
	var ce *collcache.CreationError
	if errors.As(err, &ce) {
		return domain.NewCacheCreationError(ce.Collection, ce.Err)
	}
	if errors.Is(err, db.ErrCollectionNotFound) {
		return fmt.Errorf("collection %q: %w", collection, domain.ErrNotFound)
	}
	return domain.NewBackendQueryError(source, err)
}
