package hit

// KeywordPage carries one keyword sub-query page: hits in backend rank order
// plus the keyword-side facet counts and spell-check suggestion.
type KeywordPage struct {
	hits       []Hit
	facets     []Facet
	suggestion string
}

// NewKeywordPage creates a keyword page. Slices are copied.
func NewKeywordPage(hits []Hit, facets []Facet, suggestion string) KeywordPage {
	p := KeywordPage{suggestion: suggestion}
	if len(hits) > 0 {
		p.hits = make([]Hit, len(hits))
		copy(p.hits, hits)
	}
	if len(facets) > 0 {
		p.facets = make([]Facet, len(facets))
		copy(p.facets, facets)
	}
	return p
}

// Hits returns the page hits in backend rank order.
func (p KeywordPage) Hits() []Hit {
	out := make([]Hit, len(p.hits))
	copy(out, p.hits)
	return out
}

// Facets returns the keyword-side facet counts.
func (p KeywordPage) Facets() []Facet {
	out := make([]Facet, len(p.facets))
	copy(out, p.facets)
	return out
}

// Suggestion returns the spell-check suggestion, empty when none.
func (p KeywordPage) Suggestion() string { return p.suggestion }
