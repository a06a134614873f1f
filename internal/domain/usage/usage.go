package usage

import (
	"github.com/kailas-cloud/fusedex/internal/domain/usage/budget"
	"github.com/kailas-cloud/fusedex/internal/domain/usage/metrics"
)

// Period is the aggregation window of a usage report.
type Period string

// Supported aggregation windows.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// Report is a snapshot of embedding consumption and budget state for one
// aggregation window.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	metrics     metrics.Metrics
	budget      budget.Budget
}

// NewReport assembles a usage report. Start and end are unix millis; the
// total window carries none.
func NewReport(period Period, start, end int64, m metrics.Metrics, b budget.Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		metrics:     m,
		budget:      b,
	}
}

// Period returns the aggregation window.
func (r Report) Period() Period { return r.period }

// PeriodStart returns the window start (unix millis, 0 for total).
func (r Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the window end (unix millis, 0 for total).
func (r Report) PeriodEnd() int64 { return r.periodEnd }

// Metrics returns the consumption counters.
func (r Report) Metrics() metrics.Metrics { return r.metrics }

// Budget returns the budget snapshot.
func (r Report) Budget() budget.Budget { return r.budget }
