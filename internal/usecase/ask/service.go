package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/collection"
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
	"github.com/kailas-cloud/fusedex/internal/domain/search/request"
	"github.com/kailas-cloud/fusedex/internal/domain/search/stage"
)

// DefaultMaxContextDocs bounds how many retrieved documents ground an answer
// when no explicit limit is configured.
const DefaultMaxContextDocs = 5

const systemPrompt = "You are a search assistant. Answer using only the " +
	"provided context documents. If the context does not contain the answer, " +
	"say that you do not know. Be concise."

const noContextAnswer = "I could not find any relevant documents to answer that."

// Answer is a grounded reply: the completion text, the ids of the documents
// it was grounded on, and the retrieval stage that produced them.
type Answer struct {
	Text    string
	Sources []string
	Stage   stage.Stage
}

// Service answers free-text questions over a collection. It retrieves
// context through the search orchestrator and synthesizes the reply with a
// chat completion; it holds no conversation state.
type Service struct {
	searcher Searcher
	chat     ChatCompleter
	maxDocs  int
	logger   *zap.Logger
}

// New creates an ask service.
func New(searcher Searcher, chat ChatCompleter, maxDocs int, logger *zap.Logger) *Service {
	if maxDocs <= 0 {
		maxDocs = DefaultMaxContextDocs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{searcher: searcher, chat: chat, maxDocs: maxDocs, logger: logger}
}

// Ask retrieves up to maxDocs context documents for the question and answers
// from them. Empty retrieval short-circuits with a fixed reply instead of
// burning a completion on an ungrounded prompt.
func (s *Service) Ask(ctx context.Context, collectionName, question string) (Answer, error) {
	if err := collection.ValidateName(collectionName); err != nil {
		return Answer{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidParameter)
	}

	req, err := request.New(question, "", nil, s.maxDocs, 0)
	if err != nil {
		return Answer{}, err
	}

	resp, err := s.searcher.Search(ctx, collectionName, &req)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}
	if resp.IsEmpty() {
		return Answer{Text: noContextAnswer, Stage: stage.None}, nil
	}

	hits := resp.Hits()
	text, err := s.chat.Complete(ctx, systemPrompt, buildUserPrompt(question, hits))
	if err != nil {
		return Answer{}, fmt.Errorf("complete answer: %w", err)
	}

	sources := make([]string, 0, len(hits))
	for i := range hits {
		sources = append(sources, hits[i].ID())
	}

	s.logger.Debug("Answered question",
		zap.String("collection", collectionName),
		zap.String("stage", string(resp.Stage())),
		zap.Int("context_docs", len(sources)))

	return Answer{Text: text, Sources: sources, Stage: resp.Stage()}, nil
}

// buildUserPrompt renders the context documents and the question. Each
// document keeps its backend field order; the id field is shown in the
// header, not repeated in the body.
func buildUserPrompt(question string, hits []hit.Hit) string {
	var b strings.Builder
	b.WriteString("Context documents:\n")
	for i := range hits {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, hits[i].ID())
		for _, name := range hits[i].FieldNames() {
			if name == "id" {
				continue
			}
			if v, ok := hits[i].Field(name); ok {
				fmt.Fprintf(&b, "%s: %v\n", name, v)
			}
		}
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}
