package stage

// Stage is one state of the retrieval fallback chain, in order of preference.
type Stage string

// Fallback stage constants.
const (
	// Hybrid fuses concurrent keyword and vector sub-queries.
	Hybrid Stage = "hybrid"
	// KeywordOnly issues the lexical sub-query alone.
	KeywordOnly Stage = "keyword_only"
	// VectorOnly issues the vector sub-query alone.
	VectorOnly Stage = "vector_only"
	// None is the terminal state: every stage failed or yielded nothing.
	None Stage = "none"
)

// IsValid checks if the stage is one of the supported values.
func (s Stage) IsValid() bool {
	return s == Hybrid || s == KeywordOnly || s == VectorOnly || s == None
}

// Next returns the stage to advance to when this one fails or comes up empty.
func (s Stage) Next() Stage {
	switch s {
	case Hybrid:
		return KeywordOnly
	case KeywordOnly:
		return VectorOnly
	default:
		return None
	}
}
