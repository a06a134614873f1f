// Package usage assembles embedding consumption reports for the usage
// endpoint.
package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/fusedex/internal/domain/usage"
	"github.com/kailas-cloud/fusedex/internal/domain/usage/budget"
	"github.com/kailas-cloud/fusedex/internal/domain/usage/metrics"
)

// Service builds usage reports from the budget tracker state.
type Service struct {
	br BudgetReader
}

// New creates a Service. br may be nil (no budget configured).
func New(br BudgetReader) *Service {
	return &Service{br: br}
}

// GetReport assembles the report for one aggregation window.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	start, end := periodBounds(period)

	var limit, used, remaining int64
	if s.br != nil {
		switch period {
		case domusage.PeriodDay:
			limit, used, remaining = s.br.DailyLimit(), s.br.DailyUsed(), s.br.RemainingDaily()
		default:
			// month and total both report the monthly window
			limit, used, remaining = s.br.MonthlyLimit(), s.br.MonthlyUsed(), s.br.RemainingMonthly()
		}
	}

	exhausted := limit > 0 && remaining <= 0
	b := budget.New(int(limit), int(remaining), exhausted, end)
	m := metrics.New(0, int(used)) // per-period request counts are not tracked yet

	return domusage.NewReport(period, start, end, m, b)
}

// periodBounds returns the UTC window for the period; total has none.
func periodBounds(period domusage.Period) (start, end int64) {
	now := time.Now().UTC()
	switch period {
	case domusage.PeriodDay:
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return from.UnixMilli(), from.Add(24 * time.Hour).UnixMilli()
	case domusage.PeriodMonth:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from.UnixMilli(), from.AddDate(0, 1, 0).UnixMilli()
	default:
		return 0, 0
	}
}
