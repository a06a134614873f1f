package fusedex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
	"github.com/kailas-cloud/fusedex/internal/domain/search/request"
	"github.com/kailas-cloud/fusedex/internal/domain/search/response"
	searchuc "github.com/kailas-cloud/fusedex/internal/usecase/search"
)

// Stage identifies which retrieval stage produced a response.
type Stage string

// Retrieval stages, in fallback order.
const (
	StageHybrid      Stage = "hybrid"
	StageKeywordOnly Stage = "keyword_only"
	StageVectorOnly  Stage = "vector_only"
	StageNone        Stage = "none"
)

// SearchService executes search queries against a single collection.
type SearchService struct {
	collection string
	svc        *searchuc.Service
}

// SearchOptions configures a search query.
type SearchOptions struct {
	Filter   string   // backend-native filter expression, passed through verbatim
	Fields   []string // fields to return, empty returns all stored fields
	TopK     int      // 0 uses the default of 10, capped at 500
	MinScore float64  // drop fused results scoring below this
}

// Result is a single search hit.
type Result struct {
	ID     string
	Score  float64
	Scored bool // false when the producing stage reports no score
	Fields map[string]any
}

// FacetValue is one value count within a facet.
type FacetValue struct {
	Value string
	Count int64
}

// Facet groups value counts for one field.
type Facet struct {
	Field  string
	Values []FacetValue
}

// Response is a stage-tagged search response.
type Response struct {
	Results    []Result
	Stage      Stage
	Degraded   bool // true when any stage before the producing one failed or came up empty
	Facets     []Facet
	Suggestion string // spellcheck suggestion from the keyword backend, if any
}

// Query executes a hybrid search, degrading through keyword-only and
// vector-only stages when a retrieval side is unavailable.
func (s *SearchService) Query(
	ctx context.Context, query string, opts *SearchOptions,
) (*Response, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	req, err := request.New(query, opts.Filter, opts.Fields, opts.TopK, opts.MinScore)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	resp, err := s.svc.Search(ctx, s.collection, &req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return fromSearchResponse(&resp), nil
}

func fromSearchResponse(resp *response.Response) *Response {
	hits := resp.Hits()
	results := make([]Result, len(hits))
	for i := range hits {
		results[i] = fromHit(&hits[i])
	}

	return &Response{
		Results:    results,
		Stage:      Stage(resp.Stage()),
		Degraded:   resp.IsDegraded(),
		Facets:     fromFacets(resp.Facets()),
		Suggestion: resp.Suggestion(),
	}
}

func fromHit(h *hit.Hit) Result {
	score, scored := h.Score()
	return Result{
		ID:     h.ID(),
		Score:  score,
		Scored: scored,
		Fields: h.Fields(),
	}
}

func fromFacets(facets []hit.Facet) []Facet {
	if len(facets) == 0 {
		return nil
	}
	out := make([]Facet, len(facets))
	for i := range facets {
		values := facets[i].Values()
		vals := make([]FacetValue, len(values))
		for j := range values {
			vals[j] = FacetValue{Value: values[j].Value(), Count: values[j].Count()}
		}
		out[i] = Facet{Field: facets[i].Field(), Values: vals}
	}
	return out
}
