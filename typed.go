package fusedex

import (
	"fmt"
)

// TypedSearch is a generic, schema-first search handle backed by a fusedex
// Client. The field mapping is inferred from T's struct tags at construction
// time, and searches request only the mapped fields.
type TypedSearch[T any] struct {
	name   string
	client *Client
	meta   *schemaMeta
}

// NewTypedSearch creates a typed search handle for the given collection name.
// T must be a struct with fusedex tags. The mapping is parsed once and cached.
func NewTypedSearch[T any](client *Client, name string) (*TypedSearch[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("typed search %q: %w", name, err)
	}
	return &TypedSearch[T]{name: name, client: client, meta: meta}, nil
}

// Search returns a fluent search builder for this collection.
func (ts *TypedSearch[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{ts: ts}
}
