package chi

import "time"

// ErrorCode identifies the error class in API responses.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
	ErrorCodeCollectionNotFound     ErrorCode = "collection_not_found"
	ErrorCodeRateLimited            ErrorCode = "rate_limited"
	ErrorCodeEmbeddingQuotaExceeded ErrorCode = "embedding_quota_exceeded"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeChatProviderError      ErrorCode = "chat_provider_error"
	ErrorCodeBackendError           ErrorCode = "backend_error"
	ErrorCodeNotImplemented         ErrorCode = "not_implemented"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the POST .../search body.
type SearchRequest struct {
	Query    string   `json:"query"`
	Filter   string   `json:"filter,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	TopK     int      `json:"top_k,omitempty"`
	MinScore float64  `json:"min_score,omitempty"`
}

// SearchResultItem is one returned document.
type SearchResultItem struct {
	ID     string         `json:"id"`
	Score  *float64       `json:"score,omitempty"`
	Fields map[string]any `json:"fields"`
}

// FacetValueCount is one value count within a facet.
type FacetValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// FacetCounts groups value counts for one faceted field.
type FacetCounts struct {
	Field  string            `json:"field"`
	Values []FacetValueCount `json:"values"`
}

// SearchResponse is the POST .../search reply. Stage names the retrieval
// stage that produced the items; degraded is true whenever it is not the
// full hybrid stage.
type SearchResponse struct {
	Items                []SearchResultItem `json:"items"`
	Total                int                `json:"total"`
	Stage                string             `json:"stage"`
	Degraded             bool               `json:"degraded"`
	FacetCounts          []FacetCounts      `json:"facet_counts,omitempty"`
	SpellcheckSuggestion string             `json:"spellcheck_suggestion,omitempty"`
}

// AskRequest is the POST .../ask body.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the POST .../ask reply. Sources lists the ids of the
// documents the answer was grounded on.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Stage   string   `json:"stage"`
}

// FieldDescriptor describes one resolved collection field.
type FieldDescriptor struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	MultiValued bool   `json:"multi_valued"`
	Stored      bool   `json:"stored"`
	Indexed     bool   `json:"indexed"`
	DocValues   bool   `json:"doc_values"`
}

// FieldsResponse is the GET .../fields reply.
type FieldsResponse struct {
	Collection string            `json:"collection"`
	Fields     []FieldDescriptor `json:"fields"`
}

// CacheSizeResponse is the GET /api/v1/cache reply.
type CacheSizeResponse struct {
	Size int `json:"size"`
}

// CacheEvictResponse is the DELETE /api/v1/cache/{collection} reply.
type CacheEvictResponse struct {
	Collection string `json:"collection"`
	Evicted    bool   `json:"evicted"`
}

// UsageMetrics is the consumption part of the usage report.
type UsageMetrics struct {
	EmbeddingRequests int `json:"embedding_requests"`
	Tokens            int `json:"tokens"`
}

// BudgetStatus is the budget part of the usage report.
type BudgetStatus struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	Unlimited       bool       `json:"unlimited"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// UsageResponse is the GET /usage reply.
type UsageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt *time.Time   `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time   `json:"period_end_at,omitempty"`
	Usage         UsageMetrics `json:"usage"`
	Budget        BudgetStatus `json:"budget"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
