package schema

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	explicitFieldsFn func(ctx context.Context, collection string) ([]db.FieldSpec, error)
	dynamicFieldsFn  func(ctx context.Context, collection string) ([]db.FieldSpec, error)
	sampleFieldsFn   func(ctx context.Context, collection string, n int) ([]string, error)
}

func (m *mockStore) ExplicitFields(ctx context.Context, collection string) ([]db.FieldSpec, error) {
	if m.explicitFieldsFn != nil {
		return m.explicitFieldsFn(ctx, collection)
	}
	return nil, nil
}

func (m *mockStore) DynamicFields(ctx context.Context, collection string) ([]db.FieldSpec, error) {
	if m.dynamicFieldsFn != nil {
		return m.dynamicFieldsFn(ctx, collection)
	}
	return nil, nil
}

func (m *mockStore) SampleFields(ctx context.Context, collection string, n int) ([]string, error) {
	if m.sampleFieldsFn != nil {
		return m.sampleFieldsFn(ctx, collection, n)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}
