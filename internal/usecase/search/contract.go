package search

import (
	"context"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
)

// Repository defines the backend contract for search sub-queries.
type Repository interface {
	SearchKeyword(
		ctx context.Context, collection, query, filter string,
		fields []string, rows int,
	) (hit.KeywordPage, error)

	SearchVector(
		ctx context.Context, collection string, vector []float32,
		filter string, fields []string, k int,
	) ([]hit.Hit, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
