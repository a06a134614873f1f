// Package health aggregates component probes for the health endpoint.
package health

import "context"

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy means every component probe passed.
	Healthy Status = "ok"
	// Degraded means some probes failed.
	Degraded Status = "degraded"
	// Unhealthy means every probe failed.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one component probe.
type CheckResult string

const (
	// CheckOK marks a passing probe.
	CheckOK CheckResult = "ok"
	// CheckError marks a failing probe.
	CheckError CheckResult = "error"
)

// Report carries the aggregate status plus per-component outcomes.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the component probes.
type Service struct {
	backend   BackendPinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding may be nil when no provider supports
// health probing.
func New(backend BackendPinger, embedding EmbeddingChecker) *Service {
	return &Service{backend: backend, embedding: embedding}
}

// Check probes every wired component and aggregates the outcome.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"backend": toResult(s.backend.Ping(ctx)),
	}
	if s.embedding != nil {
		checks["embedding"] = toResult(s.embedding.HealthCheck(ctx))
	}

	return Report{Status: overall(checks), Checks: checks}
}

func toResult(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}

// overall is Healthy only when every probe passed, Unhealthy when every
// probe failed, Degraded in between.
func overall(checks map[string]CheckResult) Status {
	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	switch {
	case failed == 0:
		return Healthy
	case failed == len(checks):
		return Unhealthy
	default:
		return Degraded
	}
}
