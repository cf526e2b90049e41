package source

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-engine/internal/model"
	"github.com/sells-group/answer-engine/pkg/wikipedia"
)

// WikipediaAdapter answers queries from encyclopedia page extracts.
type WikipediaAdapter struct {
	client wikipedia.Client
	weight float64
	guard  *Guard
}

// NewWikipediaAdapter creates the encyclopedia source adapter.
func NewWikipediaAdapter(client wikipedia.Client, weight float64, guard *Guard) *WikipediaAdapter {
	return &WikipediaAdapter{client: client, weight: weight, guard: guard}
}

func (a *WikipediaAdapter) Name() string { return "wikipedia" }

func (a *WikipediaAdapter) Weight() float64 { return a.weight }

// Fetch looks the company up and derives an attribute answer from the page
// intro. Returns nil when no page matched or the intro does not cover the
// asked attribute.
func (a *WikipediaAdapter) Fetch(ctx context.Context, query model.StructuredQuery) (*model.SourceResult, error) {
	page, err := Do(ctx, a.guard, func(ctx context.Context) (*wikipedia.Page, error) {
		return a.client.Lookup(ctx, searchQuery(query))
	})
	if err != nil {
		return nil, eris.Wrapf(err, "source: wikipedia lookup %q", query.CompanyName)
	}
	if page == nil || page.Extract == "" {
		return nil, nil
	}

	value := answerFromExtract(query.Attribute, page.Extract)
	if value == "" {
		return nil, nil
	}

	snippets := page.Snippets
	if len(snippets) > 3 {
		snippets = snippets[:3]
	}

	return &model.SourceResult{
		SourceID:          a.Name(),
		Value:             value,
		EvidenceSnippets:  snippets,
		FetchedAt:         time.Now().UTC(),
		ReliabilityWeight: a.weight,
	}, nil
}

var (
	foundingRe = regexp.MustCompile(`(?i)\b(?:founded|established|incorporated|formed)\b[^.]*?\b((?:1[6-9]|20)\d{2})\b`)
	yearRe     = regexp.MustCompile(`\b((?:1[6-9]|20)\d{2})\b`)
	locationRe = regexp.MustCompile(`(?i)\b(?:headquartered|based|located)\s+in\s+([A-Z][^.,;]*(?:,\s*[A-Z][^.,;]*)?)`)
)

// answerFromExtract pulls the attribute-specific answer out of a page intro.
// Founding questions yield a year, location questions the headquarters place,
// everything else the first sentence.
func answerFromExtract(attr model.Attribute, extract string) string {
	switch attr {
	case model.AttrFounding:
		if m := foundingRe.FindStringSubmatch(extract); m != nil {
			return m[1]
		}
		// Intros often state the year without a founding verb nearby; the
		// first plausible year in the first sentence is the next best guess.
		if m := yearRe.FindStringSubmatch(firstSentence(extract)); m != nil {
			return m[1]
		}
		return ""
	case model.AttrLocation:
		if m := locationRe.FindStringSubmatch(extract); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	default:
		return firstSentence(extract)
	}
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	for i := 1; i < len(s); i++ {
		if s[i] != '.' {
			continue
		}
		if i+1 < len(s) && s[i+1] != ' ' && s[i+1] != '\n' {
			continue
		}
		// Dots after uppercase letters are abbreviations ("U.S.", "E."), not
		// sentence ends.
		prev := s[i-1]
		if prev >= 'A' && prev <= 'Z' {
			continue
		}
		candidate := strings.TrimSpace(s[:i+1])
		if len(strings.Fields(candidate)) >= 4 {
			return candidate
		}
	}
	return s
}
