package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/fusedex/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	req, err := New("hybrid retrieval", `lang:"go"`, []string{"title", "body"}, 25, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Query() != "hybrid retrieval" {
		t.Errorf("Query() = %q", req.Query())
	}
	if req.Filter() != `lang:"go"` {
		t.Errorf("Filter() = %q", req.Filter())
	}
	if len(req.Fields()) != 2 {
		t.Errorf("Fields() = %v", req.Fields())
	}
	if req.TopK() != 25 {
		t.Errorf("TopK() = %d", req.TopK())
	}
	if req.MinScore() != 0.5 {
		t.Errorf("MinScore() = %v", req.MinScore())
	}
}

func TestNew_Defaults(t *testing.T) {
	req, err := New("query", "", nil, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", req.TopK(), DefaultTopK)
	}
	if req.Fields() != nil {
		t.Errorf("Fields() = %v, want nil", req.Fields())
	}
	if req.MinScore() != 0 {
		t.Errorf("MinScore() = %v", req.MinScore())
	}
}

func TestNew_ClampsTopK(t *testing.T) {
	req, err := New("query", "", nil, MaxTopK+1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != MaxTopK {
		t.Errorf("TopK() = %d, want %d", req.TopK(), MaxTopK)
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	_, err := New("", "", nil, 10, 0)
	if err == nil {
		t.Fatal("expected error for empty query")
	}
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("q", MaxQueryLength+1), "", nil, 10, 0)
	if err == nil {
		t.Fatal("expected error for query too long")
	}
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestNew_NegativeTopK(t *testing.T) {
	_, err := New("query", "", nil, -1, 0)
	if err == nil {
		t.Fatal("expected error for negative top_k")
	}
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestNew_NegativeMinScore(t *testing.T) {
	_, err := New("query", "", nil, 10, -0.1)
	if err == nil {
		t.Fatal("expected error for negative min_score")
	}
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestNew_ClonesFields(t *testing.T) {
	fields := []string{"title"}
	req, _ := New("query", "", fields, 10, 0)

	fields[0] = "mutated"

	if req.Fields()[0] != "title" {
		t.Error("fields mutation leaked into request")
	}
}
