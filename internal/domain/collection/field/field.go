package field

import "fmt"

// Type is the declared type of a schema field. The set is open: backends
// report their own type names (text_general, pint, boolean, ...).
type Type string

// TypeUnknown marks a field whose type could not be determined.
const TypeUnknown Type = "unknown"

// MaxNameLength is the maximum allowed field name length.
const MaxNameLength = 64

// Field is an immutable value object describing one collection field.
type Field struct {
	name        string
	fieldType   Type
	multiValued bool
	stored      bool
	indexed     bool
	docValues   bool
}

// New validates and creates a Field. Name must be non-empty, max 64 chars.
// An empty type becomes TypeUnknown.
func New(name string, ft Type, multiValued, stored, indexed, docValues bool) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > MaxNameLength {
		return Field{}, fmt.Errorf("field name %q too long (max %d)", name, MaxNameLength)
	}
	if ft == "" {
		ft = TypeUnknown
	}
	return Field{
		name: name, fieldType: ft,
		multiValued: multiValued, stored: stored, indexed: indexed, docValues: docValues,
	}, nil
}

// Reconstruct creates a Field without validation (backend hydration).
func Reconstruct(name string, ft Type, multiValued, stored, indexed, docValues bool) Field {
	return Field{
		name: name, fieldType: ft,
		multiValued: multiValued, stored: stored, indexed: indexed, docValues: docValues,
	}
}

// Fallback builds the descriptor used when schema introspection fails or no
// declaration covers the name: unknown type, stored, indexed, single-valued.
func Fallback(name string) Field {
	return Field{name: name, fieldType: TypeUnknown, stored: true, indexed: true}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the declared field type.
func (f Field) FieldType() Type { return f.fieldType }

// MultiValued reports whether the field holds multiple values per document.
func (f Field) MultiValued() bool { return f.multiValued }

// Stored reports whether the field value is retrievable.
func (f Field) Stored() bool { return f.stored }

// Indexed reports whether the field is searchable.
func (f Field) Indexed() bool { return f.indexed }

// DocValues reports whether the field supports sorting and faceting.
func (f Field) DocValues() bool { return f.docValues }
