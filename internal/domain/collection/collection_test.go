package collection

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/fusedex/internal/domain/collection/field"
)

func TestValidateName(t *testing.T) {
	for _, name := range []string{"products", "my-index", "logs_2024", "a"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v", name, err)
		}
	}

	invalid := []string{"", "has space", "slash/name", strings.Repeat("a", MaxNameLength+1), "índice"}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) should fail", name)
		}
	}
}

func TestNewSchema_DuplicateField(t *testing.T) {
	a, _ := field.New("title", "text_general", false, true, true, false)
	b, _ := field.New("title", "string", false, true, true, true)

	_, err := NewSchema([]field.Field{a, b}, nil)
	if err == nil {
		t.Fatal("expected error for duplicate field name")
	}
}

func TestSchema_FieldByName(t *testing.T) {
	title, _ := field.New("title", "text_general", false, true, true, false)
	year, _ := field.New("year", "pint", false, true, true, true)
	s, err := NewSchema([]field.Field{title, year}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, ok := s.FieldByName("year")
	if !ok {
		t.Fatal("expected to find year")
	}
	if f.FieldType() != "pint" {
		t.Errorf("FieldType() = %q", f.FieldType())
	}

	if _, ok := s.FieldByName("missing"); ok {
		t.Error("expected missing to not be found")
	}
}

func TestSchema_BestPattern(t *testing.T) {
	loose, _ := field.NewPattern("*_txt", "text_general", false, true, true, false)
	tight, _ := field.NewPattern("*_body_txt", "text_en", false, true, true, false)
	catchAll, _ := field.NewPattern("*", "string", false, true, true, false)
	s, err := NewSchema(nil, []field.Pattern{catchAll, loose, tight})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, ok := s.BestPattern("article_body_txt")
	if !ok {
		t.Fatal("expected a matching pattern")
	}
	if p.Glob() != "*_body_txt" {
		t.Errorf("BestPattern chose %q, want most specific", p.Glob())
	}

	p, ok = s.BestPattern("title_txt")
	if !ok || p.Glob() != "*_txt" {
		t.Errorf("BestPattern chose %q, want *_txt", p.Glob())
	}

	p, ok = s.BestPattern("unrelated")
	if !ok || p.Glob() != "*" {
		t.Errorf("BestPattern chose %q, want catch-all", p.Glob())
	}
}

func TestSchema_BestPattern_NoMatch(t *testing.T) {
	loose, _ := field.NewPattern("*_txt", "text_general", false, true, true, false)
	s, _ := NewSchema(nil, []field.Pattern{loose})

	if _, ok := s.BestPattern("plain"); ok {
		t.Error("expected no match")
	}
}

func TestNewSchema_CopiesSlices(t *testing.T) {
	title, _ := field.New("title", "text_general", false, true, true, false)
	fields := []field.Field{title}
	s, _ := NewSchema(fields, nil)

	replacement, _ := field.New("other", "string", false, true, true, false)
	fields[0] = replacement

	if s.Fields()[0].Name() != "title" {
		t.Error("field slice mutation leaked into schema")
	}
}
