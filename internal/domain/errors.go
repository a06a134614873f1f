package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidParameter signals a request-validation failure.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrMissingIdentifier signals a document without an id reaching rank fusion.
	ErrMissingIdentifier = errors.New("document missing identifier")

	// ErrBackendQuery signals a failed search backend sub-query.
	ErrBackendQuery = errors.New("backend query failed")
	// ErrCacheCreation signals a failed lazy handle construction.
	ErrCacheCreation = errors.New("cache handle creation failed")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)

// BackendQueryError wraps ErrBackendQuery with the failed sub-query source
// ("keyword", "vector", "schema", "sample"). The orchestrator recovers from
// these by advancing the fallback chain; they never reach the caller.
type BackendQueryError struct {
	Source string
	Err    error
}

func (e *BackendQueryError) Error() string {
	return fmt.Sprintf("%s query: %v", e.Source, e.Err)
}

func (e *BackendQueryError) Unwrap() error { return ErrBackendQuery }

// NewBackendQueryError creates a backend sub-query error.
func NewBackendQueryError(source string, err error) error {
	return &BackendQueryError{Source: source, Err: err}
}

// CacheCreationError wraps ErrCacheCreation with the collection whose handle
// could not be built. Propagated: there is no cached fallback handle.
type CacheCreationError struct {
	Collection string
	Err        error
}

func (e *CacheCreationError) Error() string {
	return fmt.Sprintf("create handle for %q: %v", e.Collection, e.Err)
}

func (e *CacheCreationError) Unwrap() error { return ErrCacheCreation }

// NewCacheCreationError creates a cache handle creation error.
func NewCacheCreationError(collection string, err error) error {
	return &CacheCreationError{Collection: collection, Err: err}
}
