package health

import "context"

// BackendPinger probes search backend connectivity.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker probes embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
