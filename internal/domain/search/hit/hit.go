package hit

import "fmt"

// Hit is a retrieved document (immutable value object): an identifier, an
// ordered field map, and an optional relevance score. Field order is kept as
// the backend returned it.
type Hit struct {
	id     string
	names  []string
	fields map[string]any
	score  float64
	scored bool
}

// New validates and creates a Hit. The fields map is copied; names fixes the
// field order and must name every key in fields exactly once.
func New(id string, names []string, fields map[string]any) (Hit, error) {
	if id == "" {
		return Hit{}, fmt.Errorf("hit id is required")
	}
	if len(names) != len(fields) {
		return Hit{}, fmt.Errorf("field order has %d names for %d fields", len(names), len(fields))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return Hit{}, fmt.Errorf("duplicate field %q in order", n)
		}
		seen[n] = true
		if _, ok := fields[n]; !ok {
			return Hit{}, fmt.Errorf("field order names unknown field %q", n)
		}
	}

	return Hit{id: id, names: cloneNames(names), fields: cloneFields(fields)}, nil
}

// Reconstruct creates a Hit without validation (backend hydration). Backend
// data may lack an id; the fusion layer rejects such hits.
func Reconstruct(id string, names []string, fields map[string]any, score float64, scored bool) Hit {
	return Hit{id: id, names: names, fields: fields, score: score, scored: scored}
}

// ID returns the document identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the relevance score and whether the hit carries one.
// Keyword and vector backends score their hits; sampled documents do not.
func (h *Hit) Score() (float64, bool) { return h.score, h.scored }

// Field returns the named field value.
func (h *Hit) Field(name string) (any, bool) {
	v, ok := h.fields[name]
	return v, ok
}

// Fields returns a copy of the field map.
func (h *Hit) Fields() map[string]any { return cloneFields(h.fields) }

// FieldNames returns a copy of the field names in backend order.
func (h *Hit) FieldNames() []string { return cloneNames(h.names) }

// WithScore returns a copy with the given score set.
func (h *Hit) WithScore(score float64) Hit {
	return Hit{id: h.id, names: h.names, fields: h.fields, score: score, scored: true}
}

func cloneNames(names []string) []string {
	if names == nil {
		return nil
	}
	c := make([]string, len(names))
	copy(c, names)
	return c
}

func cloneFields(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
