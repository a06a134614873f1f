package source

// Source identifies a retrieval signal contributing to a fused result.
type Source string

// Retrieval source constants.
const (
	// Keyword is the lexical (BM25) sub-query.
	Keyword Source = "keyword"
	// Vector is the embedding similarity (KNN) sub-query.
	Vector Source = "vector"
)

// IsValid checks if the source is one of the supported values.
func (s Source) IsValid() bool {
	return s == Keyword || s == Vector
}
