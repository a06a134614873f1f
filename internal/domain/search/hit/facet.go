package hit

// FacetValue is one value count within a facet.
type FacetValue struct {
	value string
	count int64
}

// NewFacetValue creates a facet value count.
func NewFacetValue(value string, count int64) FacetValue {
	return FacetValue{value: value, count: count}
}

// Value returns the facet value.
func (v *FacetValue) Value() string { return v.value }

// Count returns the number of matching documents.
func (v *FacetValue) Count() int64 { return v.count }

// Facet groups value counts for one field, as reported by the keyword backend.
type Facet struct {
	field  string
	values []FacetValue
}

// NewFacet creates a facet. The value slice is copied.
func NewFacet(field string, values []FacetValue) Facet {
	c := make([]FacetValue, len(values))
	copy(c, values)
	return Facet{field: field, values: c}
}

// Field returns the faceted field name.
func (f *Facet) Field() string { return f.field }

// Values returns a copy of the value counts.
func (f *Facet) Values() []FacetValue {
	c := make([]FacetValue, len(f.values))
	copy(c, f.values)
	return c
}
