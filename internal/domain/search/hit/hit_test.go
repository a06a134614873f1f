package hit

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	names := []string{"title", "body", "year"}
	fields := map[string]any{"title": "go", "body": "hybrid retrieval", "year": 2024}

	h, err := New("doc-1", names, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ID() != "doc-1" {
		t.Errorf("ID() = %q", h.ID())
	}
	if v, ok := h.Field("title"); !ok || v != "go" {
		t.Errorf("Field(title) = %v, %v", v, ok)
	}
	if _, ok := h.Score(); ok {
		t.Error("new hit should not carry a score")
	}
	got := h.FieldNames()
	if len(got) != 3 || got[0] != "title" || got[1] != "body" || got[2] != "year" {
		t.Errorf("FieldNames() = %v", got)
	}
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New("", []string{"a"}, map[string]any{"a": 1})
	if err == nil {
		t.Fatal("expected error for empty id")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_OrderMismatch(t *testing.T) {
	fields := map[string]any{"a": 1, "b": 2}

	if _, err := New("doc-1", []string{"a"}, fields); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := New("doc-1", []string{"a", "c"}, fields); err == nil {
		t.Error("expected error for unknown name")
	}
	if _, err := New("doc-1", []string{"a", "a"}, fields); err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestNew_ClonesInputs(t *testing.T) {
	names := []string{"k"}
	fields := map[string]any{"k": "v"}

	h, _ := New("doc-1", names, fields)

	// Mutating the originals must not affect the hit
	names[0] = "mutated"
	fields["k"] = "mutated"

	if h.FieldNames()[0] != "k" {
		t.Error("names mutation leaked into hit")
	}
	if v, _ := h.Field("k"); v != "v" {
		t.Error("fields mutation leaked into hit")
	}
}

func TestFields_ReturnsCopy(t *testing.T) {
	h, _ := New("doc-1", []string{"k"}, map[string]any{"k": "v"})

	h.Fields()["k"] = "mutated"

	if v, _ := h.Field("k"); v != "v" {
		t.Error("Fields() copy mutation leaked into hit")
	}
}

func TestWithScore(t *testing.T) {
	h, _ := New("doc-1", []string{"k"}, map[string]any{"k": "v"})

	scored := h.WithScore(0.42)

	if _, ok := h.Score(); ok {
		t.Error("original hit should stay unscored")
	}
	s, ok := scored.Score()
	if !ok || s != 0.42 {
		t.Errorf("Score() = %v, %v", s, ok)
	}
	if scored.ID() != "doc-1" {
		t.Error("WithScore should preserve id")
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	// Backend data may lack an id; Reconstruct accepts it
	h := Reconstruct("", nil, map[string]any{"k": "v"}, 1.5, true)
	if h.ID() != "" {
		t.Errorf("ID() = %q", h.ID())
	}
	if s, ok := h.Score(); !ok || s != 1.5 {
		t.Errorf("Score() = %v, %v", s, ok)
	}
}
