package response

import (
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
	"github.com/kailas-cloud/fusedex/internal/domain/search/stage"
)

// Response is the tagged outcome of a search: which stage produced the hits,
// whether the engine degraded to get there, and any keyword-side extras.
type Response struct {
	hits       []hit.Hit
	stage      stage.Stage
	facets     []hit.Facet
	suggestion string
}

// Fused creates a full-strength hybrid response.
func Fused(hits []hit.Hit, facets []hit.Facet, suggestion string) Response {
	return Response{hits: hits, stage: stage.Hybrid, facets: facets, suggestion: suggestion}
}

// Degraded creates a response from a fallback stage.
func Degraded(st stage.Stage, hits []hit.Hit, facets []hit.Facet, suggestion string) Response {
	return Response{hits: hits, stage: st, facets: facets, suggestion: suggestion}
}

// Empty is the terminal outcome: every stage failed or matched nothing.
func Empty() Response {
	return Response{stage: stage.None}
}

// Hits returns the result documents, best first.
func (r *Response) Hits() []hit.Hit { return r.hits }

// Stage returns the stage that produced this response.
func (r *Response) Stage() stage.Stage { return r.stage }

// IsDegraded reports whether the response came from a fallback stage.
func (r *Response) IsDegraded() bool { return r.stage != stage.Hybrid }

// IsEmpty reports whether every stage was exhausted without results.
func (r *Response) IsEmpty() bool { return r.stage == stage.None }

// Facets returns keyword-side facet counts (nil when the winning stage had no
// keyword sub-query).
func (r *Response) Facets() []hit.Facet { return r.facets }

// Suggestion returns the keyword backend's spell-check suggestion, if any.
func (r *Response) Suggestion() string { return r.suggestion }
