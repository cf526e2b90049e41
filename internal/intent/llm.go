package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-engine/internal/model"
	"github.com/sells-group/answer-engine/pkg/llm"
)

const extractSystem = `You extract structured intent from questions about companies.
Respond with a single JSON object and nothing else:
{"company": "<company name>", "attribute": "<one of: overview, founding, location, financials, leadership, products, customers, news>"}
Use an empty company string if no company is mentioned.`

// LLMExtractor implements Extractor using a completion client.
type LLMExtractor struct {
	client llm.Client
	model  string
}

// NewLLMExtractor creates an extractor backed by the given completion client.
func NewLLMExtractor(client llm.Client, model string) *LLMExtractor {
	return &LLMExtractor{client: client, model: model}
}

// ExtractIntent asks the model for a strict-JSON company/attribute pair.
func (e *LLMExtractor) ExtractIntent(ctx context.Context, rawText string) (string, model.Attribute, error) {
	temp := 0.0
	resp, err := e.client.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		MaxTokens:   256,
		System:      extractSystem,
		Prompt:      rawText,
		Temperature: &temp,
	})
	if err != nil {
		return "", "", eris.Wrap(err, "intent: llm complete")
	}

	var out struct {
		Company   string `json:"company"`
		Attribute string `json:"attribute"`
	}
	text := strings.TrimSpace(resp.Text)
	// Tolerate fenced output from models that ignore the plain-JSON instruction.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return "", "", eris.Wrap(err, "intent: parse llm output")
	}

	attr := model.Attribute(strings.ToLower(strings.TrimSpace(out.Attribute)))
	if !attr.Valid() {
		attr = model.AttrOverview
	}
	return strings.TrimSpace(out.Company), attr, nil
}
