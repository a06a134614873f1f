package schema

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fusedex/internal/domain/collection"
	"github.com/kailas-cloud/fusedex/internal/domain/collection/field"
)

type mockIntrospector struct {
	schemaFn       func(ctx context.Context, coll string) (collection.Schema, error)
	sampleFieldsFn func(ctx context.Context, coll string, n int) ([]string, error)

	schemaCalls int
}

func (m *mockIntrospector) Schema(ctx context.Context, coll string) (collection.Schema, error) {
	m.schemaCalls++
	if m.schemaFn == nil {
		return collection.Schema{}, nil
	}
	return m.schemaFn(ctx, coll)
}

func (m *mockIntrospector) SampleFields(ctx context.Context, coll string, n int) ([]string, error) {
	if m.sampleFieldsFn == nil {
		return nil, nil
	}
	return m.sampleFieldsFn(ctx, coll, n)
}

func testSchema(t *testing.T) collection.Schema {
	t.Helper()

	title, err := field.New("title", "text_general", false, true, true, false)
	if err != nil {
		t.Fatalf("field.New() error = %v", err)
	}
	year, err := field.New("year", "pint", false, true, true, true)
	if err != nil {
		t.Fatalf("field.New() error = %v", err)
	}
	txt, err := field.NewPattern("*_txt", "text_general", true, true, true, false)
	if err != nil {
		t.Fatalf("field.NewPattern() error = %v", err)
	}
	bodyTxt, err := field.NewPattern("*body_txt", "text_en", false, true, true, false)
	if err != nil {
		t.Fatalf("field.NewPattern() error = %v", err)
	}

	sch, err := collection.NewSchema([]field.Field{title, year}, []field.Pattern{txt, bodyTxt})
	if err != nil {
		t.Fatalf("collection.NewSchema() error = %v", err)
	}
	return sch
}
