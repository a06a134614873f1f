package usage

import (
	"testing"

	"github.com/kailas-cloud/fusedex/internal/domain/usage/budget"
	"github.com/kailas-cloud/fusedex/internal/domain/usage/metrics"
)

func TestNewReport(t *testing.T) {
	m := metrics.New(37, 92100)
	b := budget.New(500000, 407900, false, 1756166400000)

	r := NewReport(PeriodMonth, 1753977600000, 1756656000000, m, b)

	if r.Period() != PeriodMonth {
		t.Errorf("Period() = %q, want %q", r.Period(), PeriodMonth)
	}
	if r.PeriodStart() != 1753977600000 {
		t.Errorf("PeriodStart() = %d", r.PeriodStart())
	}
	if r.PeriodEnd() != 1756656000000 {
		t.Errorf("PeriodEnd() = %d", r.PeriodEnd())
	}
	if r.Metrics().EmbeddingRequests() != 37 {
		t.Errorf("EmbeddingRequests() = %d, want 37", r.Metrics().EmbeddingRequests())
	}
	if r.Metrics().Tokens() != 92100 {
		t.Errorf("Tokens() = %d, want 92100", r.Metrics().Tokens())
	}
	if r.Budget().TokensLimit() != 500000 {
		t.Errorf("TokensLimit() = %d, want 500000", r.Budget().TokensLimit())
	}
	if r.Budget().IsExhausted() {
		t.Error("IsExhausted() = true, want false")
	}
}

func TestPeriodConstants(t *testing.T) {
	tests := []struct {
		period Period
		want   string
	}{
		{PeriodDay, "day"},
		{PeriodMonth, "month"},
		{PeriodTotal, "total"},
	}
	for _, tc := range tests {
		if string(tc.period) != tc.want {
			t.Errorf("period = %q, want %q", tc.period, tc.want)
		}
	}
}
