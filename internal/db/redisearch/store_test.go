package redisearch

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/fusedex/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"No Such Index articles", "no such index", true},
		{"UNKNOWN INDEX NAME", "unknown index", true},
		{"short", "longer than input", false},
		{"", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- handle cache: this store opens no per-collection handles ---

func TestHandleCache_NoHandles(t *testing.T) {
	s := &Store{}
	if s.CacheSize() != 0 {
		t.Errorf("expected size 0, got %d", s.CacheSize())
	}
	if s.CacheEvict("articles") {
		t.Error("expected false")
	}
	s.CacheClear()
}

// --- search.go tests ---

func TestSearchKeyword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "FT.SEARCH" || cmd[1] != "articles" {
				return false
			}
			for _, a := range cmd {
				if a == "WITHSCORES" {
					return true
				}
			}
			return false
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("articles:1"),
			mock.RedisString("3.5"),
			mock.RedisArray(
				mock.RedisString("id"), mock.RedisString("doc-1"),
				mock.RedisString("title"), mock.RedisString("hybrid retrieval"),
				mock.RedisString("year"), mock.RedisString("2021"),
			),
			mock.RedisString("articles:2"),
			mock.RedisString("1.25"),
			mock.RedisArray(
				mock.RedisString("title"), mock.RedisString("rank fusion"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKeyword(context.Background(), &db.KeywordQuery{
		Collection: "articles",
		Query:      "hybrid retrieval",
		Rows:       10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}

	first := result.Entries[0]
	if first.ID != "doc-1" {
		t.Errorf("expected id from field, got %q", first.ID)
	}
	if !first.Scored || first.Score != 3.5 {
		t.Errorf("unexpected score: %f (scored=%v)", first.Score, first.Scored)
	}
	wantNames := []string{"id", "title", "year"}
	if len(first.FieldNames) != len(wantNames) {
		t.Fatalf("expected %d field names, got %v", len(wantNames), first.FieldNames)
	}
	for i, n := range wantNames {
		if first.FieldNames[i] != n {
			t.Errorf("field name %d: expected %q, got %q", i, n, first.FieldNames[i])
		}
	}
	if first.Fields["title"] != "hybrid retrieval" {
		t.Errorf("unexpected title: %v", first.Fields["title"])
	}

	// No id field: the redis key stands in.
	if result.Entries[1].ID != "articles:2" {
		t.Errorf("expected key fallback, got %q", result.Entries[1].ID)
	}

	if len(result.Facets) != 0 || result.Suggestion != "" {
		t.Errorf("expected no facets or suggestion, got %v %q", result.Facets, result.Suggestion)
	}
}

func TestSearchKeyword_FilterAndEscaping(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == `(@year:[2020 +inf]) (hello \@user)`
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.SearchKeyword(context.Background(), &db.KeywordQuery{
		Collection: "articles",
		Query:      "hello @user",
		Filter:     "@year:[2020 +inf]",
		Rows:       5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestSearchKeyword_ReturnFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			for i, a := range cmd {
				if a == "RETURN" {
					return i+3 < len(cmd) && cmd[i+1] == "2" && cmd[i+2] == "title" && cmd[i+3] == "year"
				}
			}
			return false
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	_, err := s.SearchKeyword(context.Background(), &db.KeywordQuery{
		Collection: "articles",
		Query:      "fusion",
		Fields:     []string{"title", "year"},
		Rows:       5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKeyword_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchKeyword(ctx, &db.KeywordQuery{Query: "q", Rows: 10})
	if err == nil {
		t.Error("expected error for empty collection")
	}

	_, err = s.SearchKeyword(ctx, &db.KeywordQuery{Collection: "articles", Rows: 10})
	if err == nil {
		t.Error("expected error for empty query")
	}

	_, err = s.SearchKeyword(ctx, &db.KeywordQuery{Collection: "articles", Query: "q"})
	if err == nil {
		t.Error("expected error for rows=0")
	}
}

func TestSearchKeyword_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("articles: no such index")))

	s := NewStoreForTest(c)
	_, err := s.SearchKeyword(context.Background(), &db.KeywordQuery{
		Collection: "articles",
		Query:      "fusion",
		Rows:       10,
	})
	if !errors.Is(err, db.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}

	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpFTSearch {
		t.Errorf("expected op %q, got %v", db.OpFTSearch, err)
	}
}

func TestSearchVector_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "FT.SEARCH" || cmd[2] != "*=>[KNN 10 @vector $BLOB]" {
				return false
			}
			for i, a := range cmd {
				// 2 float32s serialize to 8 bytes
				if a == "BLOB" {
					return i+1 < len(cmd) && len(cmd[i+1]) == 8
				}
			}
			return false
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("articles:1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("0.2"),
				mock.RedisString("id"), mock.RedisString("doc-1"),
				mock.RedisString("title"), mock.RedisString("hybrid retrieval"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchVector(context.Background(), &db.VectorQuery{
		Collection: "articles",
		Vector:     []float32{0.1, 0.2},
		K:          10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}

	entry := result.Entries[0]
	if entry.ID != "doc-1" {
		t.Errorf("expected id from field, got %q", entry.ID)
	}
	// cosine distance 0.2 maps to similarity 0.8
	if !entry.Scored || entry.Score < 0.79 || entry.Score > 0.81 {
		t.Errorf("expected score ~0.8, got %f (scored=%v)", entry.Score, entry.Scored)
	}
	if _, ok := entry.Fields["__vector_score"]; ok {
		t.Error("expected __vector_score to be stripped from fields")
	}
	for _, n := range entry.FieldNames {
		if n == "__vector_score" {
			t.Error("expected __vector_score to be stripped from field names")
		}
	}
}

func TestSearchVector_Filter(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "(@lang:{en})=>[KNN 3 @vector $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	_, err := s.SearchVector(context.Background(), &db.VectorQuery{
		Collection: "articles",
		Vector:     []float32{0.1},
		Filter:     "@lang:{en}",
		K:          3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchVector_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchVector(ctx, &db.VectorQuery{Vector: []float32{0.1}, K: 10})
	if err == nil {
		t.Error("expected error for empty collection")
	}

	_, err = s.SearchVector(ctx, &db.VectorQuery{Collection: "articles", K: 10})
	if err == nil {
		t.Error("expected error for empty vector")
	}

	_, err = s.SearchVector(ctx, &db.VectorQuery{Collection: "articles", Vector: []float32{0.1}})
	if err == nil {
		t.Error("expected error for k=0")
	}
}

// --- schema.go tests ---

func TestExplicitFields_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "articles")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisString("index_name"), mock.RedisString("articles"),
			mock.RedisString("attributes"), mock.RedisArray(
				mock.RedisArray(
					mock.RedisString("identifier"), mock.RedisString("title"),
					mock.RedisString("attribute"), mock.RedisString("title"),
					mock.RedisString("type"), mock.RedisString("TEXT"),
					mock.RedisString("WEIGHT"), mock.RedisString("1"),
					mock.RedisString("SORTABLE"),
				),
				mock.RedisArray(
					mock.RedisString("identifier"), mock.RedisString("embedding"),
					mock.RedisString("attribute"), mock.RedisString("vector"),
					mock.RedisString("type"), mock.RedisString("VECTOR"),
				),
				mock.RedisArray(
					mock.RedisString("identifier"), mock.RedisString("year"),
					mock.RedisString("attribute"), mock.RedisString("year"),
					mock.RedisString("type"), mock.RedisString("NUMERIC"),
					mock.RedisString("NOINDEX"),
				),
			),
			mock.RedisString("num_docs"), mock.RedisString("42"),
		)))

	s := NewStoreForTest(c)
	specs, err := s.ExplicitFields(context.Background(), "articles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(specs))
	}

	title := specs[0]
	if title.Name != "title" || title.Type != "text" {
		t.Errorf("unexpected spec: %+v", title)
	}
	if !title.DocValues {
		t.Error("expected SORTABLE to map to docValues")
	}
	if !title.Stored || !title.Indexed {
		t.Errorf("expected stored and indexed, got %+v", title)
	}

	vec := specs[1]
	if vec.Name != "vector" || vec.Type != "vector" {
		t.Errorf("expected alias over identifier, got %+v", vec)
	}

	year := specs[2]
	if year.Indexed {
		t.Error("expected NOINDEX to clear indexed")
	}
}

func TestExplicitFields_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "missing")).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	s := NewStoreForTest(c)
	_, err := s.ExplicitFields(context.Background(), "missing")
	if !errors.Is(err, db.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}

	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpFTInfo {
		t.Errorf("expected op %q, got %v", db.OpFTInfo, err)
	}
}

func TestDynamicFields_Empty(t *testing.T) {
	s := &Store{}
	specs, err := s.DynamicFields(context.Background(), "articles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("expected no dynamic fields, got %v", specs)
	}
}

func TestSampleFields_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "articles", "*", "LIMIT", "0", "50", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("articles:1"),
			mock.RedisArray(
				mock.RedisString("id"), mock.RedisString("doc-1"),
				mock.RedisString("title"), mock.RedisString("a"),
			),
			mock.RedisString("articles:2"),
			mock.RedisArray(
				mock.RedisString("title"), mock.RedisString("b"),
				mock.RedisString("year"), mock.RedisString("2020"),
			),
		)))

	s := NewStoreForTest(c)
	names, err := s.SampleFields(context.Background(), "articles", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"id", "title", "year"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("name %d: expected %q, got %q", i, n, names[i])
		}
	}
}

func TestSampleFields_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SampleFields(ctx, "", 10)
	if err == nil {
		t.Error("expected error for empty collection")
	}

	_, err = s.SampleFields(ctx, "articles", 0)
	if err == nil {
		t.Error("expected error for n=0")
	}
}

// --- query helpers ---

func TestEscapeQuery(t *testing.T) {
	input := `hello @user`
	escaped := escapeQuery(input)
	if escaped != `hello \@user` {
		t.Errorf("unexpected escaped: %q", escaped)
	}
}

func TestVectorToBytes(t *testing.T) {
	v := []float32{1.0}
	b := vectorToBytes(v)
	if len(b) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(b))
	}
}
