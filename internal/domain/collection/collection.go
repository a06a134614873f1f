package collection

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/fusedex/internal/domain/collection/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxNameLength is the maximum allowed collection name length.
const MaxNameLength = 64

// ValidateName checks a collection name: ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("collection name too long (max %d)", MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// Schema is the introspected shape of a collection: explicitly declared
// fields plus dynamic field patterns (immutable value object).
type Schema struct {
	fields   []field.Field
	patterns []field.Pattern
}

// NewSchema validates and creates a Schema. Explicit field names must be
// unique; slices are copied.
func NewSchema(fields []field.Field, patterns []field.Pattern) (Schema, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return Schema{}, fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}

	fc := make([]field.Field, len(fields))
	copy(fc, fields)
	pc := make([]field.Pattern, len(patterns))
	copy(pc, patterns)

	return Schema{fields: fc, patterns: pc}, nil
}

// Fields returns the explicitly declared fields.
func (s Schema) Fields() []field.Field { return s.fields }

// Patterns returns the dynamic field patterns.
func (s Schema) Patterns() []field.Pattern { return s.patterns }

// FieldByName looks up an explicit field declaration by name.
func (s Schema) FieldByName(name string) (field.Field, bool) {
	for _, f := range s.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// BestPattern returns the most specific dynamic pattern matching name.
// Ties keep the first declared pattern.
func (s Schema) BestPattern(name string) (field.Pattern, bool) {
	var best field.Pattern
	found := false
	for _, p := range s.patterns {
		if !p.Match(name) {
			continue
		}
		if !found || p.Specificity() > best.Specificity() {
			best = p
			found = true
		}
	}
	return best, found
}
