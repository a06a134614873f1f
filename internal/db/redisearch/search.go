package redisearch

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// SearchKeyword runs a BM25 text search via FT.SEARCH. The filter expression
// is passed through as a query fragment; RediSearch has no facet or
// spellcheck components, so those stay empty.
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

	queryStr := escapeQuery(q.Query)
	if q.Filter != "" {
		queryStr = fmt.Sprintf("(%s) (%s)", q.Filter, queryStr)
	}

	args := []string{q.Collection, queryStr}
	if len(q.Fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.Fields)))
		args = append(args, q.Fields...)
	}
	args = append(args,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(q.Rows),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index") {
			return nil, &db.Error{Op: db.OpFTSearch, Err: db.ErrCollectionNotFound}
		}
		return nil, &db.Error{Op: db.OpFTSearch, Err: err}
	}

	entries, total, err := parseScoredResult(raw)
	if err != nil {
		return nil, err
	}
	return &db.KeywordResult{Total: total, Entries: entries}, nil
}

// SearchVector runs a KNN vector similarity search via FT.SEARCH.
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

	knnPart := fmt.Sprintf("[KNN %d @vector $BLOB]", q.K)
	var queryStr string
	if q.Filter != "" {
		queryStr = fmt.Sprintf("(%s)=>%s", q.Filter, knnPart)
	} else {
		queryStr = fmt.Sprintf("*=>%s", knnPart)
	}

	args := []string{q.Collection, queryStr}
	if len(q.Fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.Fields)))
		args = append(args, q.Fields...)
	}
	args = append(args, "PARAMS", "2", "BLOB", vectorToBytes(q.Vector), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index") {
			return nil, &db.Error{Op: db.OpFTSearch, Err: db.ErrCollectionNotFound}
		}
		return nil, &db.Error{Op: db.OpFTSearch, Err: err}
	}

	entries, total, err := parseKNNResult(raw)
	if err != nil {
		return nil, err
	}
	return &db.VectorResult{Total: total, Entries: entries}, nil
}

// --- Result parsing ---

// parseScoredResult parses the WITHSCORES 3-stride reply:
// [total, key1, score1, fields1, key2, score2, fields2, ...]
func parseScoredResult(raw []rueidis.RedisMessage) ([]db.SearchEntry, int, error) {
	if len(raw) == 0 {
		return nil, 0, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, 0, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entry := newEntry(key, fields)
		entry.Score = score
		entry.Scored = true
		entries = append(entries, entry)
	}

	return entries, int(total), nil
}

// parseKNNResult parses the 2-stride reply:
// [total, key1, fields1, key2, fields2, ...]
func parseKNNResult(raw []rueidis.RedisMessage) ([]db.SearchEntry, int, error) {
	if len(raw) == 0 {
		return nil, 0, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, 0, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := newEntry(key, fields)

		// Convert __vector_score (cosine distance) to similarity
		if v, ok := entry.Fields["__vector_score"]; ok {
			if scoreStr, isStr := v.(string); isStr {
				if s, err := strconv.ParseFloat(scoreStr, 64); err == nil {
					entry.Score = max(0, 1.0-s)
					entry.Scored = true
				}
			}
			delete(entry.Fields, "__vector_score")
			entry.FieldNames = dropName(entry.FieldNames, "__vector_score")
		}

		entries = append(entries, entry)
	}

	return entries, int(total), nil
}

// newEntry builds a SearchEntry from a RESP field pair array, keeping the
// reply's field order. The document id comes from the id field when present,
// otherwise from the redis key.
func newEntry(key string, fields []rueidis.RedisMessage) db.SearchEntry {
	entry := db.SearchEntry{Fields: make(map[string]any, len(fields)/2)}
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		if _, dup := entry.Fields[name]; !dup {
			entry.FieldNames = append(entry.FieldNames, name)
		}
		entry.Fields[name] = value
	}

	if id, ok := entry.Fields["id"].(string); ok && id != "" {
		entry.ID = id
	} else {
		entry.ID = key
	}
	return entry
}

func dropName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// --- Query helpers ---

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
