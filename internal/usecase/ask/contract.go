package ask

import (
	"context"

	"github.com/kailas-cloud/fusedex/internal/domain/search/request"
	"github.com/kailas-cloud/fusedex/internal/domain/search/response"
)

// Searcher retrieves grounding documents through the retrieval fallback
// chain. Implemented by usecase/search.Service.
type Searcher interface {
	Search(ctx context.Context, collection string, req *request.Request) (response.Response, error)
}

// ChatCompleter produces one chat completion from a system and user prompt.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
