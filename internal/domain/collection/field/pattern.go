package field

import (
	"fmt"
	"strings"
)

// Pattern is a dynamic field declaration: a name glob with a single leading
// or trailing wildcard, and the attributes it confers on matching fields.
type Pattern struct {
	glob        string
	fieldType   Type
	multiValued bool
	stored      bool
	indexed     bool
	docValues   bool
}

// NewPattern validates and creates a Pattern. The glob must contain exactly
// one '*', at the first or last position. An empty type becomes TypeUnknown.
func NewPattern(glob string, ft Type, multiValued, stored, indexed, docValues bool) (Pattern, error) {
	if glob == "" {
		return Pattern{}, fmt.Errorf("pattern glob is required")
	}
	if strings.Count(glob, "*") != 1 {
		return Pattern{}, fmt.Errorf("pattern %q must contain exactly one wildcard", glob)
	}
	if !strings.HasPrefix(glob, "*") && !strings.HasSuffix(glob, "*") {
		return Pattern{}, fmt.Errorf("pattern %q wildcard must lead or trail", glob)
	}
	if ft == "" {
		ft = TypeUnknown
	}
	return Pattern{
		glob: glob, fieldType: ft,
		multiValued: multiValued, stored: stored, indexed: indexed, docValues: docValues,
	}, nil
}

// Glob returns the pattern glob.
func (p Pattern) Glob() string { return p.glob }

// Match reports whether the field name matches the glob.
func (p Pattern) Match(name string) bool {
	if prefix, ok := strings.CutSuffix(p.glob, "*"); ok {
		return strings.HasPrefix(name, prefix)
	}
	return strings.HasSuffix(name, strings.TrimPrefix(p.glob, "*"))
}

// Specificity returns the length of the fixed part of the glob. When several
// patterns match a name, the highest specificity wins.
func (p Pattern) Specificity() int { return len(p.glob) - 1 }

// Resolve builds the field descriptor the pattern confers on name.
func (p Pattern) Resolve(name string) Field {
	return Field{
		name: name, fieldType: p.fieldType,
		multiValued: p.multiValued, stored: p.stored, indexed: p.indexed, docValues: p.docValues,
	}
}
