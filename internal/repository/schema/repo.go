package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/fusedex/internal/db"
	"github.com/kailas-cloud/fusedex/internal/db/collcache"
	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/collection"
	"github.com/kailas-cloud/fusedex/internal/domain/collection/field"
)

// store is the consumer interface for schema introspection (ISP).
type store interface {
	ExplicitFields(ctx context.Context, collection string) ([]db.FieldSpec, error)
	DynamicFields(ctx context.Context, collection string) ([]db.FieldSpec, error)
	SampleFields(ctx context.Context, collection string, n int) ([]string, error)
}

// Repo implements usecase/schema.Introspector.
type Repo struct {
	store store
}

// New creates a schema repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Schema reads the declared fields and dynamic patterns of a collection.
func (r *Repo) Schema(ctx context.Context, coll string) (collection.Schema, error) {
	specs, err := r.store.ExplicitFields(ctx, coll)
	if err != nil {
		return collection.Schema{}, translateErr("schema", coll, err)
	}
	dynSpecs, err := r.store.DynamicFields(ctx, coll)
	if err != nil {
		return collection.Schema{}, translateErr("schema", coll, err)
	}

	fields := make([]field.Field, 0, len(specs))
	for _, s := range specs {
		fields = append(fields, field.Reconstruct(s.Name, field.Type(s.Type), s.MultiValued, s.Stored, s.Indexed, s.DocValues))
	}

	patterns := make([]field.Pattern, 0, len(dynSpecs))
	for _, s := range dynSpecs {
		p, err := field.NewPattern(s.Name, field.Type(s.Type), s.MultiValued, s.Stored, s.Indexed, s.DocValues)
		if err != nil {
			// not a usable glob
			continue
		}
		patterns = append(patterns, p)
	}

	sch, err := collection.NewSchema(fields, patterns)
	if err != nil {
		return collection.Schema{}, fmt.Errorf("assemble schema for %q: %w", coll, err)
	}
	return sch, nil
}

// SampleFields reports the distinct field names used across a document sample.
func (r *Repo) SampleFields(ctx context.Context, coll string, n int) ([]string, error) {
	names, err := r.store.SampleFields(ctx, coll, n)
	if err != nil {
		return nil, translateErr("sample", coll, err)
	}
	return names, nil
}

// translateErr maps db layer failures onto the domain error taxonomy.
func translateErr(source, coll string, err error) error {
	var ce *collcache.CreationError
	if errors.As(err, &ce) {
		return domain.NewCacheCreationError(ce.Collection, ce.Err)
	}
	if errors.Is(err, db.ErrCollectionNotFound) {
		return fmt.Errorf("collection %q: %w", coll, domain.ErrNotFound)
	}
	return domain.NewBackendQueryError(source, err)
}
