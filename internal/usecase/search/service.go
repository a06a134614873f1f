package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/collection"
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
	"github.com/kailas-cloud/fusedex/internal/domain/search/request"
	"github.com/kailas-cloud/fusedex/internal/domain/search/response"
	"github.com/kailas-cloud/fusedex/internal/domain/search/stage"
	"github.com/kailas-cloud/fusedex/internal/metrics"
)

// Service orchestrates hybrid retrieval over the fallback chain
// hybrid -> keyword_only -> vector_only -> none. Sub-query failures degrade
// the response instead of failing the request; only invalid input and
// unrecoverable handle construction surface as errors.
type Service struct {
	repo   Repository
	embed  Embedder
	merger *Merger
	logger *zap.Logger
}

// New creates a search orchestrator.
func New(repo Repository, embed Embedder, merger *Merger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, embed: embed, merger: merger, logger: logger}
}

// run carries one request's state across fallback stages, including the
// memoized query embedding: the provider is asked at most once per request.
type run struct {
	collection string
	req        *request.Request

	embedDone bool
	vector    []float32
	embedErr  error
}

// rows is the per-stage over-fetch budget. Sub-queries pull more than topK
// so rank fusion and minScore filtering still fill the page.
func (r *run) rows() int {
	return 2 * r.req.TopK()
}

// Search runs the fallback chain and returns the first stage that produced
// documents. Exhausting every stage yields an empty response, not an error.
func (s *Service) Search(
	ctx context.Context, collectionName string, req *request.Request,
) (response.Response, error) {
	if err := collection.ValidateName(collectionName); err != nil {
		return response.Response{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidParameter)
	}
	if req == nil {
		return response.Response{}, fmt.Errorf("search request is required: %w", domain.ErrInvalidParameter)
	}

	r := &run{collection: collectionName, req: req}

	for st := stage.Hybrid; st != stage.None; st = st.Next() {
		start := time.Now()
		hits, facets, suggestion, err := s.runStage(ctx, st, r)
		metrics.SearchStageDuration.WithLabelValues(string(st)).Observe(time.Since(start).Seconds())

		if err != nil {
			if errors.Is(err, domain.ErrCacheCreation) {
				return response.Response{}, err
			}
			metrics.SearchFallbacksTotal.WithLabelValues(string(st), fallbackReason(err)).Inc()
			s.logger.Warn("Search stage failed",
				zap.String("collection", collectionName),
				zap.String("stage", string(st)),
				zap.Error(err))
			continue
		}

		if len(hits) == 0 {
			metrics.SearchFallbacksTotal.WithLabelValues(string(st), "empty").Inc()
			continue
		}

		metrics.SearchesTotal.WithLabelValues(string(st)).Inc()
		if st == stage.Hybrid {
			return response.Fused(hits, facets, suggestion), nil
		}
		return response.Degraded(st, hits, facets, suggestion), nil
	}

	metrics.SearchesTotal.WithLabelValues(string(stage.None)).Inc()
	return response.Empty(), nil
}

func (s *Service) runStage(
	ctx context.Context, st stage.Stage, r *run,
) ([]hit.Hit, []hit.Facet, string, error) {
	switch st {
	case stage.Hybrid:
		return s.runHybrid(ctx, r)
	case stage.KeywordOnly:
		return s.runKeywordOnly(ctx, r)
	case stage.VectorOnly:
		return s.runVectorOnly(ctx, r)
	default:
		return nil, nil, "", nil
	}
}

// runHybrid embeds the query, issues both sub-queries concurrently, and
// fuses the rankings. One failed sub-query fails the whole stage; there is
// no partial fusion.
func (s *Service) runHybrid(ctx context.Context, r *run) ([]hit.Hit, []hit.Facet, string, error) {
	vector, err := s.queryVector(ctx, r)
	if err != nil {
		return nil, nil, "", err
	}

	var (
		page    hit.KeywordPage
		kwErr   error
		vecHits []hit.Hit
		vecErr  error
	)

	// Branch errors are captured, not returned: the group must not cancel
	// the sibling sub-query mid-flight.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, kwErr = s.repo.SearchKeyword(
			gctx, r.collection, r.req.Query(), r.req.Filter(), r.req.Fields(), r.rows(),
		)
		return nil
	})
	g.Go(func() error {
		vecHits, vecErr = s.repo.SearchVector(
			gctx, r.collection, vector, r.req.Filter(), r.req.Fields(), r.rows(),
		)
		return nil
	})
	_ = g.Wait()

	if kwErr != nil {
		return nil, nil, "", kwErr
	}
	if vecErr != nil {
		return nil, nil, "", vecErr
	}

	fused, err := s.merger.Merge(page.Hits(), vecHits)
	if err != nil {
		return nil, nil, "", err
	}

	hits := make([]hit.Hit, 0, len(fused))
	for i := range fused {
		h := fused[i].Hit()
		if score, _ := h.Score(); r.req.MinScore() > 0 && score < r.req.MinScore() {
			continue
		}
		hits = append(hits, h)
	}

	return truncate(hits, r.req.TopK()), page.Facets(), page.Suggestion(), nil
}

func (s *Service) runKeywordOnly(ctx context.Context, r *run) ([]hit.Hit, []hit.Facet, string, error) {
	page, err := s.repo.SearchKeyword(
		ctx, r.collection, r.req.Query(), r.req.Filter(), r.req.Fields(), r.rows(),
	)
	if err != nil {
		return nil, nil, "", err
	}

	hits := filterByScore(page.Hits(), r.req.MinScore())
	return truncate(hits, r.req.TopK()), page.Facets(), page.Suggestion(), nil
}

func (s *Service) runVectorOnly(ctx context.Context, r *run) ([]hit.Hit, []hit.Facet, string, error) {
	vector, err := s.queryVector(ctx, r)
	if err != nil {
		return nil, nil, "", err
	}

	vecHits, err := s.repo.SearchVector(
		ctx, r.collection, vector, r.req.Filter(), r.req.Fields(), r.rows(),
	)
	if err != nil {
		return nil, nil, "", err
	}

	hits := filterByScore(vecHits, r.req.MinScore())
	return truncate(hits, r.req.TopK()), nil, "", nil
}

// queryVector embeds the query text, memoizing both outcomes: a failed
// attempt fails the hybrid and vector-only stages alike without a retry.
func (s *Service) queryVector(ctx context.Context, r *run) ([]float32, error) {
	if r.embedDone {
		return r.vector, r.embedErr
	}
	r.embedDone = true

	result, err := s.embed.Embed(ctx, r.req.Query())
	if err != nil {
		r.embedErr = fmt.Errorf("vectorize query: %w", err)
		return nil, r.embedErr
	}

	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)
	r.vector = result.Embedding
	return r.vector, nil
}

// filterByScore drops hits scoring below minScore. Unscored hits always
// pass; minScore <= 0 disables filtering.
func filterByScore(hits []hit.Hit, minScore float64) []hit.Hit {
	if minScore <= 0 {
		return hits
	}
	kept := hits[:0]
	for _, h := range hits {
		score, scored := h.Score()
		if !scored || score >= minScore {
			kept = append(kept, h)
		}
	}
	return kept
}

func truncate(hits []hit.Hit, topK int) []hit.Hit {
	if len(hits) > topK {
		return hits[:topK]
	}
	return hits
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrEmbeddingQuotaExceeded),
		errors.Is(err, domain.ErrRateLimited):
		return "embedding_error"
	default:
		return "backend_error"
	}
}
