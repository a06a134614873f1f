package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrCollectionNotFound = errors.New("db: collection not found")
	ErrBadQuery           = errors.New("db: query rejected")
)

// Op constants name backend operations for error context.
const (
	// Solr API paths.
	OpSelect       = "/select"
	OpSchemaFields = "/schema/fields"
	OpDynamic      = "/schema/dynamicfields"
	OpPing         = "/admin/ping"

	// RediSearch commands.
	OpFTSearch = "FT.SEARCH"
	OpFTInfo   = "FT.INFO"
	OpFTList   = "FT._LIST"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
