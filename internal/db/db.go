package db

import (
	"context"
	"time"
)

// Store is the search backend facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	Searcher
	SchemaReader
	Sampler
	HandleCache
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher provides the keyword and vector sub-queries.
type Searcher interface {
	SearchKeyword(ctx context.Context, q *KeywordQuery) (*KeywordResult, error)
	SearchVector(ctx context.Context, q *VectorQuery) (*VectorResult, error)
}

// SchemaReader introspects collection schemas.
type SchemaReader interface {
	ExplicitFields(ctx context.Context, collection string) ([]FieldSpec, error)
	DynamicFields(ctx context.Context, collection string) ([]FieldSpec, error)
}

// Sampler reports the field names in use across a sample of documents.
type Sampler interface {
	SampleFields(ctx context.Context, collection string, n int) ([]string, error)
}

// HandleCache administers cached per-collection backend handles. Stores that
// open no per-collection handles report an empty cache.
type HandleCache interface {
	CacheSize() int
	CacheEvict(collection string) bool
	CacheClear()
}
