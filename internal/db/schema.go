package db

// FieldSpec is a raw field declaration as reported by the backend schema API.
// For dynamic declarations Name is a wildcard glob.
type FieldSpec struct {
	Name        string
	Type        string
	MultiValued bool
	Stored      bool
	Indexed     bool
	DocValues   bool
}
