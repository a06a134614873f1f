package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/metrics"
)

// BudgetChecker gates embedding calls on the configured token budget.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedEmbedder wraps an Embedder with budget enforcement and logging.
// Transport-level metrics (request counts, latency, token counters) live in
// transport/openai; this layer owns the budget and its gauges.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps inner. budget may be nil, which disables
// enforcement.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Embed enforces the budget, delegates, then records consumed tokens.
func (e *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	if e.budget != nil {
		if err := e.budget.Check(ctx); err != nil {
			e.logger.Error("Budget exceeded",
				zap.String("provider", e.provider),
				zap.String("model", e.model),
				zap.Error(err),
			)
			return domain.EmbeddingResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, err := e.inner.Embed(ctx, text)
	elapsed := time.Since(start)

	if err != nil {
		e.logger.Error("Embedding request failed",
			zap.String("provider", e.provider),
			zap.String("model", e.model),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	e.recordUsage(result.TotalTokens)

	e.logger.Debug("Embedding request completed",
		zap.String("provider", e.provider),
		zap.String("model", e.model),
		zap.Duration("duration", elapsed),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// recordUsage charges consumed tokens against the budget and refreshes the
// remaining-tokens gauges.
func (e *InstrumentedEmbedder) recordUsage(totalTokens int) {
	if e.budget == nil || totalTokens <= 0 {
		return
	}
	e.budget.Record(int64(totalTokens))
	remaining := metrics.EmbeddingBudgetTokensRemaining
	remaining.WithLabelValues(e.provider, "daily").Set(float64(e.budget.RemainingDaily()))
	remaining.WithLabelValues(e.provider, "monthly").Set(float64(e.budget.RemainingMonthly()))
}
