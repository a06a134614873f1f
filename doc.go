// Package fusedex provides an embedded Go client for hybrid search over
// Solr or RediSearch collections.
//
// Fusedex runs a lexical (BM25) and a vector (KNN) sub-query concurrently
// and fuses the rankings with Reciprocal Rank Fusion. When one retrieval
// side is unavailable the client degrades through keyword-only and
// vector-only stages instead of failing; every response is tagged with the
// stage that produced it.
//
// # Low-level API — explicit control
//
//	client, _ := fusedex.New(
//	    fusedex.WithSolr("http://localhost:8983/solr"),
//	    fusedex.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "text-embedding-3-small", 1536),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search("articles").Query(ctx, "solar panels", &fusedex.SearchOptions{
//	    Filter: "category:energy",
//	    TopK:   20,
//	})
//	if resp.Degraded {
//	    log.Printf("degraded to %s", resp.Stage)
//	}
//
// # High-level API — schema-first with Go generics
//
//	type Article struct {
//	    ID    string  `fusedex:"id,key"`
//	    Title string  `fusedex:"title"`
//	    Views float64 `fusedex:"views"`
//	}
//
//	arts, _ := fusedex.NewTypedSearch[Article](client, "articles")
//	hits, _ := arts.Search().Query("solar panels").TopK(20).Do(ctx)
//
// Without an embedder (WithEmbedder or WithOpenAI) the client still works:
// every search degrades to the keyword-only stage.
package fusedex
