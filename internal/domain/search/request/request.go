package request

import (
	"fmt"

	"github.com/kailas-cloud/fusedex/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 500
)

// Request is a validated search query.
type Request struct {
	query    string
	filter   string
	fields   []string
	topK     int
	minScore float64
}

// New validates and normalizes search parameters.
// Defaults: topK=10, clamped to 500. The filter expression and field list are
// passed to the backend as-is.
func New(query, filter string, fields []string, topK int, minScore float64) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required: %w", domain.ErrInvalidParameter)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidParameter)
	}
	if topK < 0 {
		return Request{}, fmt.Errorf("top_k must not be negative: %w", domain.ErrInvalidParameter)
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if minScore < 0 {
		return Request{}, fmt.Errorf("min_score must not be negative: %w", domain.ErrInvalidParameter)
	}

	return Request{
		query:    query,
		filter:   filter,
		fields:   cloneFields(fields),
		topK:     topK,
		minScore: minScore,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Filter returns the backend filter expression (empty for none).
func (r *Request) Filter() string { return r.filter }

// Fields returns the field names to return (nil for all stored fields).
func (r *Request) Fields() []string { return r.fields }

// TopK returns the maximum number of results to return.
func (r *Request) TopK() int { return r.topK }

// MinScore returns the minimum score threshold (0 disables).
func (r *Request) MinScore() float64 { return r.minScore }

func cloneFields(fields []string) []string {
	if fields == nil {
		return nil
	}
	c := make([]string, len(fields))
	copy(c, fields)
	return c
}
