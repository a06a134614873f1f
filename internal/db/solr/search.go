package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// SearchKeyword runs a lexical query via /select with the edismax parser.
func (s *Store) SearchKeyword(ctx context.Context, q *db.KeywordQuery) (*db.KeywordResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Rows <= 0 {
		return nil, fmt.Errorf("rows must be positive")
	}

	handle, err := s.clients.ForCollection(q.Collection)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("defType", "edismax")
	params.Set("rows", strconv.Itoa(q.Rows))
	params.Set("fl", fieldList(q.Fields))
	if q.Filter != "" {
		params.Set("fq", q.Filter)
	}
	params.Set("spellcheck", "true")
	params.Set("wt", "json")

	var out selectResponse
	if err := s.getJSON(ctx, handle.http, handle.selectURL+"?"+params.Encode(), &out); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	return &db.KeywordResult{
		Total:      out.Response.NumFound,
		Entries:    parseDocs(out.Response.Docs),
		Facets:     parseFacets(out.FacetCounts),
		Suggestion: parseSuggestion(out.Spellcheck),
	}, nil
}

// SearchVector runs a KNN query via /select with the knn query parser.
func (s *Store) SearchVector(ctx context.Context, q *db.VectorQuery) (*db.VectorResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	handle, err := s.clients.ForCollection(q.Collection)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("{!knn f=%s topK=%d}%s", s.vectorField, q.K, vectorJSON(q.Vector)))
	params.Set("rows", strconv.Itoa(q.K))
	params.Set("fl", fieldList(q.Fields))
	if q.Filter != "" {
		params.Set("fq", q.Filter)
	}
	params.Set("wt", "json")

	var out selectResponse
	if err := s.getJSON(ctx, handle.http, handle.selectURL+"?"+params.Encode(), &out); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	return &db.VectorResult{
		Total:   out.Response.NumFound,
		Entries: parseDocs(out.Response.Docs),
	}, nil
}

// fieldList builds the fl parameter. The id and score pseudo-fields ride
// along so hits stay mergeable even under a narrowed field list.
func fieldList(fields []string) string {
	if len(fields) == 0 {
		return "*,score"
	}
	return strings.Join(fields, ",") + ",id,score"
}

func vectorJSON(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// --- Result parsing ---

type selectResponse struct {
	Response struct {
		NumFound int               `json:"numFound"`
		Docs     []json.RawMessage `json:"docs"`
	} `json:"response"`
	FacetCounts *facetCounts    `json:"facet_counts"`
	Spellcheck  *spellcheckBody `json:"spellcheck"`
}

type facetCounts struct {
	FacetFields map[string]json.RawMessage `json:"facet_fields"`
}

type spellcheckBody struct {
	Collations []json.RawMessage `json:"collations"`
}

func parseDocs(docs []json.RawMessage) []db.SearchEntry {
	entries := make([]db.SearchEntry, 0, len(docs))
	for _, raw := range docs {
		entry, err := parseDoc(raw)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseDoc decodes one document object token by token so the backend's field
// order survives into FieldNames. The score pseudo-field is lifted out of the
// field map; numbers stay json.Number to keep large ids exact.
func parseDoc(raw json.RawMessage) (db.SearchEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return db.SearchEntry{}, fmt.Errorf("doc start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return db.SearchEntry{}, fmt.Errorf("doc is not an object")
	}

	entry := db.SearchEntry{Fields: make(map[string]any)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return db.SearchEntry{}, fmt.Errorf("doc key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return db.SearchEntry{}, fmt.Errorf("doc key is not a string")
		}

		var val any
		if err := dec.Decode(&val); err != nil {
			return db.SearchEntry{}, fmt.Errorf("field %q: %w", key, err)
		}

		if key == "score" {
			if f, ok := toFloat(val); ok {
				entry.Score = f
				entry.Scored = true
			}
			continue
		}

		entry.FieldNames = append(entry.FieldNames, key)
		entry.Fields[key] = val
	}

	entry.ID = coerceID(entry.Fields["id"])
	return entry, nil
}

// coerceID renders the id field as a string. Numeric ids keep their exact
// decimal form via json.Number.
func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseFacets flattens facet_fields pair arrays, sorted by field name.
func parseFacets(fc *facetCounts) []db.FacetField {
	if fc == nil || len(fc.FacetFields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fc.FacetFields))
	for name := range fc.FacetFields {
		names = append(names, name)
	}
	sort.Strings(names)

	facets := make([]db.FacetField, 0, len(names))
	for _, name := range names {
		// Flat array alternating value and count: ["go", 12, "rust", 3]
		var flat []any
		if err := json.Unmarshal(fc.FacetFields[name], &flat); err != nil {
			continue
		}
		ff := db.FacetField{Field: name}
		for i := 0; i+1 < len(flat); i += 2 {
			value, ok := flat[i].(string)
			if !ok {
				continue
			}
			count, ok := flat[i+1].(float64)
			if !ok {
				continue
			}
			ff.Values = append(ff.Values, db.FacetValue{Value: value, Count: int64(count)})
		}
		facets = append(facets, ff)
	}
	return facets
}

// parseSuggestion extracts the first spellcheck collation. Solr emits
// collations either as ["collation", "fixed query"] pairs or as objects with
// a collationQuery key, depending on version.
func parseSuggestion(sc *spellcheckBody) string {
	if sc == nil {
		return ""
	}
	for _, raw := range sc.Collations {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" && s != "collation" {
				return s
			}
			continue
		}
		var obj struct {
			CollationQuery string `json:"collationQuery"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.CollationQuery != "" {
			return obj.CollationQuery
		}
	}
	return ""
}
