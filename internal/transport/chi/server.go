package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fusedex/internal/db"
	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/collection/field"
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
	"github.com/kailas-cloud/fusedex/internal/domain/search/request"
	"github.com/kailas-cloud/fusedex/internal/domain/search/response"
	domusage "github.com/kailas-cloud/fusedex/internal/domain/usage"
	askuc "github.com/kailas-cloud/fusedex/internal/usecase/ask"
	healthuc "github.com/kailas-cloud/fusedex/internal/usecase/health"
	schemauc "github.com/kailas-cloud/fusedex/internal/usecase/schema"
	searchuc "github.com/kailas-cloud/fusedex/internal/usecase/search"
	usageuc "github.com/kailas-cloud/fusedex/internal/usecase/usage"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the hand-written chi HTTP API.
type Server struct {
	search        *searchuc.Service
	schema        *schemauc.Service
	ask           *askuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	cache         db.HandleCache
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. ask can be nil when no chat model is
// configured; the /ask endpoint then reports not_implemented.
func NewServer(
	search *searchuc.Service,
	schema *schemauc.Service,
	ask *askuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	cache db.HandleCache,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		schema: schema,
		ask:    ask,
		usage:  usage,
		health: health,
		cache:  cache,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidParameterHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeCollectionNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded,
			http.StatusPaymentRequired, ErrorCodeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, ErrorCodeChatProviderError),
		sentinelHandler(domain.ErrCacheCreation, http.StatusBadGateway, ErrorCodeBackendError),
		sentinelHandler(domain.ErrBackendQuery, http.StatusBadGateway, ErrorCodeBackendError),
	}
	return s
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Post("/search", s.Search)
			r.Post("/ask", s.Ask)
			r.Get("/fields", s.Fields)
		})
		r.Route("/cache", func(r chi.Router) {
			r.Get("/", s.CacheSize)
			r.Delete("/", s.CacheClear)
			r.Delete("/{collection}", s.CacheEvict)
		})
	})
	r.Get("/usage", s.Usage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /api/v1/collections/{collection}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Query is required")
		return
	}

	domReq, err := request.New(req.Query, req.Filter, req.Fields, req.TopK, req.MinScore)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())

	resp, err := s.search.Search(ctx, collection, &domReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchResponseFromDomain(&resp))
}

// Ask handles POST /api/v1/collections/{collection}/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	if s.ask == nil {
		writeError(w, http.StatusNotImplemented, ErrorCodeNotImplemented,
			"Ask requires a configured chat model")
		return
	}

	collection := chi.URLParam(r, "collection")

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Question is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())

	answer, err := s.ask.Ask(ctx, collection, req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, AskResponse{
		Answer:  answer.Text,
		Sources: sources,
		Stage:   string(answer.Stage),
	})
}

// Fields handles GET /api/v1/collections/{collection}/fields.
func (s *Server) Fields(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	fields, err := s.schema.DescribeUsedFields(r.Context(), collection)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FieldsResponse{
		Collection: collection,
		Fields:     fieldDescriptors(fields),
	})
}

// CacheSize handles GET /api/v1/cache.
func (s *Server) CacheSize(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CacheSizeResponse{Size: s.cache.CacheSize()})
}

// CacheEvict handles DELETE /api/v1/cache/{collection}.
func (s *Server) CacheEvict(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	evicted := s.cache.CacheEvict(collection)
	writeJSON(w, http.StatusOK, CacheEvictResponse{Collection: collection, Evicted: evicted})
}

// CacheClear handles DELETE /api/v1/cache.
func (s *Server) CacheClear(w http.ResponseWriter, _ *http.Request) {
	s.cache.CacheClear()
	w.WriteHeader(http.StatusNoContent)
}

// Usage handles GET /usage.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period := domusage.PeriodMonth
	switch r.URL.Query().Get("period") {
	case "day":
		period = domusage.PeriodDay
	case "total":
		period = domusage.PeriodTotal
	}

	report := s.usage.GetReport(r.Context(), period)

	resp := UsageResponse{
		Period: string(report.Period()),
		Usage: UsageMetrics{
			EmbeddingRequests: report.Metrics().EmbeddingRequests(),
			Tokens:            report.Metrics().Tokens(),
		},
		Budget: BudgetStatus{
			TokensLimit:     report.Budget().TokensLimit(),
			TokensRemaining: report.Budget().TokensRemaining(),
			IsExhausted:     report.Budget().IsExhausted(),
			Unlimited:       report.Budget().Unlimited(),
		},
	}

	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}

	if report.Budget().ResetsAt() > 0 {
		resetsAt := time.UnixMilli(report.Budget().ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchResponseFromDomain(resp *response.Response) SearchResponse {
	hits := resp.Hits()
	items := make([]SearchResultItem, len(hits))
	for i := range hits {
		items[i] = itemFromHit(&hits[i])
	}

	out := SearchResponse{
		Items:                items,
		Total:                len(items),
		Stage:                string(resp.Stage()),
		Degraded:             resp.IsDegraded(),
		SpellcheckSuggestion: resp.Suggestion(),
	}

	facets := resp.Facets()
	if len(facets) > 0 {
		out.FacetCounts = make([]FacetCounts, len(facets))
		for i := range facets {
			values := facets[i].Values()
			fc := FacetCounts{Field: facets[i].Field(), Values: make([]FacetValueCount, len(values))}
			for j := range values {
				fc.Values[j] = FacetValueCount{Value: values[j].Value(), Count: values[j].Count()}
			}
			out.FacetCounts[i] = fc
		}
	}

	return out
}

func itemFromHit(h *hit.Hit) SearchResultItem {
	item := SearchResultItem{ID: h.ID(), Fields: h.Fields()}
	if score, ok := h.Score(); ok {
		item.Score = &score
	}
	return item
}

func fieldDescriptors(fields []field.Field) []FieldDescriptor {
	out := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		out[i] = FieldDescriptor{
			Name:        f.Name(),
			Type:        string(f.FieldType()),
			MultiValued: f.MultiValued(),
			Stored:      f.Stored(),
			Indexed:     f.Indexed(),
			DocValues:   f.DocValues(),
		}
	}
	return out
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
		domain.ErrCacheCreation,
		domain.ErrBackendQuery,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidParameterHandler surfaces the full validation message. Parameter
// errors originate in domain validation and carry no internals.
func invalidParameterHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidParameter) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
