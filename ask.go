package fusedex

import (
	"context"
	"errors"
	"fmt"
)

// Answer is a grounded reply to a free-text question.
type Answer struct {
	Text    string
	Sources []string // ids of the documents the answer was grounded on
	Stage   Stage    // retrieval stage that produced the grounding documents
}

// Ask retrieves context documents from the collection and answers the
// question with a chat completion. Requires WithChat or WithChatModel.
func (c *Client) Ask(ctx context.Context, collection, question string) (Answer, error) {
	if c.askSvc == nil {
		return Answer{}, errors.New(
			"fusedex: chat model not configured (use WithChat or WithChatModel)",
		)
	}

	ans, err := c.askSvc.Ask(ctx, collection, question)
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	return Answer{
		Text:    ans.Text,
		Sources: ans.Sources,
		Stage:   Stage(ans.Stage),
	}, nil
}
