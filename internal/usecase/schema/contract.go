package schema

import (
	"context"

	"github.com/kailas-cloud/fusedex/internal/domain/collection"
)

// Introspector provides backend schema access for the resolver.
type Introspector interface {
	// Schema returns the declared schema of a collection.
	Schema(ctx context.Context, coll string) (collection.Schema, error)
	// SampleFields returns the union of field names used by up to n sampled
	// documents.
	SampleFields(ctx context.Context, coll string, n int) ([]string, error)
}
