package solr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// rawField mirrors a Solr schema field declaration. Absent attributes fall
// back to Solr's common defaults: stored and indexed on, the rest off.
type rawField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	MultiValued *bool  `json:"multiValued"`
	Stored      *bool  `json:"stored"`
	Indexed     *bool  `json:"indexed"`
	DocValues   *bool  `json:"docValues"`
}

func (f *rawField) toSpec() db.FieldSpec {
	return db.FieldSpec{
		Name:        f.Name,
		Type:        f.Type,
		MultiValued: boolOr(f.MultiValued, false),
		Stored:      boolOr(f.Stored, true),
		Indexed:     boolOr(f.Indexed, true),
		DocValues:   boolOr(f.DocValues, false),
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// ExplicitFields lists the collection's declared fields via /schema/fields.
func (s *Store) ExplicitFields(ctx context.Context, collection string) ([]db.FieldSpec, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	handle, err := s.clients.ForCollection(collection)
	if err != nil {
		return nil, err
	}

	var out struct {
		Fields []rawField `json:"fields"`
	}
	if err := s.getJSON(ctx, handle.http, handle.fieldsURL+"?wt=json", &out); err != nil {
		return nil, &db.Error{Op: db.OpSchemaFields, Err: err}
	}

	specs := make([]db.FieldSpec, 0, len(out.Fields))
	for i := range out.Fields {
		specs = append(specs, out.Fields[i].toSpec())
	}
	return specs, nil
}

// DynamicFields lists the collection's dynamic field declarations via
// /schema/dynamicfields. Spec names are wildcard globs.
func (s *Store) DynamicFields(ctx context.Context, collection string) ([]db.FieldSpec, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	handle, err := s.clients.ForCollection(collection)
	if err != nil {
		return nil, err
	}

	var out struct {
		DynamicFields []rawField `json:"dynamicFields"`
	}
	if err := s.getJSON(ctx, handle.http, handle.dynamicURL+"?wt=json", &out); err != nil {
		return nil, &db.Error{Op: db.OpDynamic, Err: err}
	}

	specs := make([]db.FieldSpec, 0, len(out.DynamicFields))
	for i := range out.DynamicFields {
		specs = append(specs, out.DynamicFields[i].toSpec())
	}
	return specs, nil
}

// SampleFields reports the distinct field names used across a sample of up
// to n documents, in first-seen order.
func (s *Store) SampleFields(ctx context.Context, collection string, n int) ([]string, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if n <= 0 {
		return nil, fmt.Errorf("sample size must be positive")
	}

	handle, err := s.clients.ForCollection(collection)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", "*:*")
	params.Set("rows", strconv.Itoa(n))
	params.Set("fl", "*")
	params.Set("wt", "json")

	var out selectResponse
	if err := s.getJSON(ctx, handle.http, handle.selectURL+"?"+params.Encode(), &out); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range parseDocs(out.Response.Docs) {
		for _, name := range entry.FieldNames {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}
