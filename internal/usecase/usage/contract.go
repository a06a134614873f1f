package usage

// BudgetReader exposes the embedding token budget state for reporting.
// A nil reader means no budget is configured and reports show unlimited
// consumption.
type BudgetReader interface {
	// Daily window.
	DailyLimit() int64
	DailyUsed() int64
	RemainingDaily() int64

	// Monthly window.
	MonthlyLimit() int64
	MonthlyUsed() int64
	RemainingMonthly() int64
}
