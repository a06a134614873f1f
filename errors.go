package fusedex

import "github.com/kailas-cloud/fusedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidParameter       = domain.ErrInvalidParameter
	ErrBackendQuery           = domain.ErrBackendQuery
	ErrCacheCreation          = domain.ErrCacheCreation
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrChatProviderError      = domain.ErrChatProviderError
)
