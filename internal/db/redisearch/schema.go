package redisearch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// ExplicitFields lists the index attributes via FT.INFO. SORTABLE maps to
// docValues, NOINDEX clears indexed; hash fields are always retrievable.
func (s *Store) ExplicitFields(ctx context.Context, collection string) ([]db.FieldSpec, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	cmd := s.b().Arbitrary("FT.INFO").Args(collection).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index") || isRedisErr(err, "no such index") {
			return nil, &db.Error{Op: db.OpFTInfo, Err: db.ErrCollectionNotFound}
		}
		return nil, &db.Error{Op: db.OpFTInfo, Err: err}
	}

	return parseInfoAttributes(raw), nil
}

// DynamicFields returns an empty list: RediSearch schemas have no dynamic
// field declarations.
func (s *Store) DynamicFields(_ context.Context, collection string) ([]db.FieldSpec, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	return nil, nil
}

// SampleFields reports the distinct field names used across a sample of up
// to n documents, in first-seen order, via a match-all FT.SEARCH.
func (s *Store) SampleFields(ctx context.Context, collection string, n int) ([]string, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if n <= 0 {
		return nil, fmt.Errorf("sample size must be positive")
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(collection, "*", "LIMIT", "0", strconv.Itoa(n), "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index") {
			return nil, &db.Error{Op: db.OpFTSearch, Err: db.ErrCollectionNotFound}
		}
		return nil, &db.Error{Op: db.OpFTSearch, Err: err}
	}

	seen := make(map[string]bool)
	var names []string
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		for j := 0; j+1 < len(fields); j += 2 {
			name, err := fields[j].ToString()
			if err != nil || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

func parseInfoAttributes(raw []rueidis.RedisMessage) []db.FieldSpec {
	for i := 0; i+1 < len(raw); i += 2 {
		name, err := raw[i].ToString()
		if err != nil || name != "attributes" {
			continue
		}
		attrs, err := raw[i+1].ToArray()
		if err != nil {
			return nil
		}

		specs := make([]db.FieldSpec, 0, len(attrs))
		for _, a := range attrs {
			attr, err := a.ToArray()
			if err != nil {
				continue
			}
			if spec, ok := parseAttribute(attr); ok {
				specs = append(specs, spec)
			}
		}
		return specs
	}
	return nil
}

func parseAttribute(attr []rueidis.RedisMessage) (db.FieldSpec, bool) {
	spec := db.FieldSpec{Stored: true, Indexed: true}
	var identifier string

	for j := 0; j < len(attr); j++ {
		tok, err := attr[j].ToString()
		if err != nil {
			continue
		}
		switch tok {
		case "identifier":
			if j+1 < len(attr) {
				identifier, _ = attr[j+1].ToString()
				j++
			}
		case "attribute":
			if j+1 < len(attr) {
				if v, err := attr[j+1].ToString(); err == nil {
					spec.Name = v
				}
				j++
			}
		case "type":
			if j+1 < len(attr) {
				if v, err := attr[j+1].ToString(); err == nil {
					spec.Type = strings.ToLower(v)
				}
				j++
			}
		case "SORTABLE":
			spec.DocValues = true
		case "NOINDEX":
			spec.Indexed = false
		}
	}

	if spec.Name == "" {
		spec.Name = identifier
	}
	return spec, spec.Name != ""
}
