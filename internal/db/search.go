package db

// KeywordQuery is the input for a lexical (BM25) search.
type KeywordQuery struct {
	Collection string
	Query      string
	Filter     string
	Fields     []string
	Rows       int
}

// VectorQuery is the input for a vector similarity (KNN) search.
type VectorQuery struct {
	Collection string
	Vector     []float32
	Filter     string
	Fields     []string
	K          int
}

// SearchEntry is a single document hit from a search. FieldNames holds the
// field order as the backend returned it; ID is coerced to a string at parse
// time and may be empty when the document carries none.
type SearchEntry struct {
	ID         string
	Score      float64
	Scored     bool
	FieldNames []string
	Fields     map[string]any
}

// FacetValue is one value count within a facet field.
type FacetValue struct {
	Value string
	Count int64
}

// FacetField holds the value counts for one faceted field.
type FacetField struct {
	Field  string
	Values []FacetValue
}

// KeywordResult is the output of a keyword search.
type KeywordResult struct {
	Total      int
	Entries    []SearchEntry
	Facets     []FacetField
	Suggestion string
}

// VectorResult is the output of a vector search.
type VectorResult struct {
	Total   int
	Entries []SearchEntry
}
