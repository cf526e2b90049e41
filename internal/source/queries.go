package source

import (
	"fmt"

	"github.com/sells-group/answer-engine/internal/model"
)

// searchQuery builds the encyclopedia search string for a query. The company
// name alone finds the page; the attribute hint biases search toward the
// right section for non-overview questions.
func searchQuery(q model.StructuredQuery) string {
	switch q.Attribute {
	case model.AttrOverview:
		return q.CompanyName
	case model.AttrFounding:
		return q.CompanyName + " founded"
	case model.AttrLocation:
		return q.CompanyName + " headquarters"
	case model.AttrFinancials:
		return q.CompanyName + " revenue"
	case model.AttrLeadership:
		return q.CompanyName + " CEO"
	case model.AttrProducts:
		return q.CompanyName + " products"
	case model.AttrCustomers:
		return q.CompanyName + " customers"
	case model.AttrNews:
		return q.CompanyName + " news"
	default:
		return q.CompanyName
	}
}

// searchPrompt builds the grounded web search question for a query.
func searchPrompt(q model.StructuredQuery) string {
	switch q.Attribute {
	case model.AttrOverview:
		return fmt.Sprintf("Give a one-sentence description of the company %s.", q.CompanyName)
	case model.AttrFounding:
		return fmt.Sprintf("In what year was the company %s founded? Answer with the year only.", q.CompanyName)
	case model.AttrLocation:
		return fmt.Sprintf("Where is the company %s headquartered? Answer with city and country only.", q.CompanyName)
	case model.AttrFinancials:
		return fmt.Sprintf("What is the most recent annual revenue of the company %s?", q.CompanyName)
	case model.AttrLeadership:
		return fmt.Sprintf("Who is the current CEO of the company %s? Answer with the name only.", q.CompanyName)
	case model.AttrProducts:
		return fmt.Sprintf("What are the main products or services of the company %s?", q.CompanyName)
	case model.AttrCustomers:
		return fmt.Sprintf("Who are the main customers or target markets of the company %s?", q.CompanyName)
	case model.AttrNews:
		return fmt.Sprintf("What is the most significant recent news about the company %s?", q.CompanyName)
	default:
		return fmt.Sprintf("Give a one-sentence description of the company %s.", q.CompanyName)
	}
}

const searchSystem = `You answer factual questions about companies using current web results.
Answer concisely in a single sentence. If you cannot find the answer, respond with exactly: UNKNOWN`
