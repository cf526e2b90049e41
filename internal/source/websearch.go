package source

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-engine/internal/model"
	"github.com/sells-group/answer-engine/pkg/websearch"
)

// WebsearchAdapter answers queries with a grounded web search completion.
type WebsearchAdapter struct {
	client websearch.Client
	model  string
	weight float64
	guard  *Guard
}

// NewWebsearchAdapter creates the web search source adapter.
func NewWebsearchAdapter(client websearch.Client, model string, weight float64, guard *Guard) *WebsearchAdapter {
	return &WebsearchAdapter{client: client, model: model, weight: weight, guard: guard}
}

func (a *WebsearchAdapter) Name() string { return "websearch" }

func (a *WebsearchAdapter) Weight() float64 { return a.weight }

// Fetch asks the search model the attribute question and uses the returned
// citations as evidence. A literal UNKNOWN reply means the source had nothing.
func (a *WebsearchAdapter) Fetch(ctx context.Context, query model.StructuredQuery) (*model.SourceResult, error) {
	maxTokens := 256
	temp := 0.0

	resp, err := Do(ctx, a.guard, func(ctx context.Context) (*websearch.SearchResponse, error) {
		return a.client.Search(ctx, websearch.SearchRequest{
			Model:       a.model,
			System:      searchSystem,
			Query:       searchPrompt(query),
			MaxTokens:   &maxTokens,
			Temperature: &temp,
		})
	})
	if err != nil {
		return nil, eris.Wrapf(err, "source: websearch query %q", query.CompanyName)
	}

	answer := strings.TrimSpace(resp.Answer)
	if answer == "" || strings.EqualFold(answer, "UNKNOWN") {
		return nil, nil
	}

	return &model.SourceResult{
		SourceID:          a.Name(),
		Value:             answer,
		EvidenceSnippets:  resp.Citations,
		FetchedAt:         time.Now().UTC(),
		ReliabilityWeight: a.weight,
	}, nil
}
