// Package intent extracts a structured company query from free text.
package intent

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/sells-group/answer-engine/internal/model"
)

// Extractor is an optional LLM-backed intent extractor. A failing extractor
// never fails a parse; the lexicon path is always the fallback.
type Extractor interface {
	ExtractIntent(ctx context.Context, rawText string) (company string, attribute model.Attribute, err error)
}

// Parser turns raw query text into a StructuredQuery.
type Parser struct {
	lexicon   []attributePhrase
	extractor Extractor
	locale    string
}

// Option configures the parser.
type Option func(*Parser)

// WithExtractor enables LLM-assisted company/attribute extraction.
func WithExtractor(e Extractor) Option {
	return func(p *Parser) { p.extractor = e }
}

// WithDefaultLocale sets the locale stamped on parsed queries.
func WithDefaultLocale(locale string) Option {
	return func(p *Parser) { p.locale = locale }
}

// NewParser creates a parser with the default attribute lexicon.
func NewParser(opts ...Option) *Parser {
	p := &Parser{lexicon: defaultLexicon}
	for _, o := range opts {
		o(p)
	}
	return p
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Parse extracts a StructuredQuery from rawText. Fails with
// model.ErrUnparseable when no company name can be found. Attribute phrases
// outside the lexicon default to overview.
func (p *Parser) Parse(ctx context.Context, rawText string) (model.StructuredQuery, error) {
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(rawText, " "))
	if text == "" {
		return model.StructuredQuery{}, model.ErrUnparseable
	}

	attr := p.matchAttribute(text)
	name := extractQuotedName(text)

	if name == "" && p.extractor != nil {
		company, llmAttr, err := p.extractor.ExtractIntent(ctx, text)
		if err != nil {
			zap.L().Debug("intent: llm extraction failed, using lexicon",
				zap.Error(err),
			)
		} else if company != "" {
			name = company
			if llmAttr.Valid() {
				attr = llmAttr
			}
		}
	}

	if name == "" {
		name = extractCapitalizedRun(text)
	}
	if name == "" {
		return model.StructuredQuery{}, model.ErrUnparseable
	}

	return model.StructuredQuery{
		CompanyName: name,
		Attribute:   attr,
		RawText:     rawText,
		Locale:      p.locale,
	}, nil
}

func (p *Parser) matchAttribute(text string) model.Attribute {
	lower := strings.ToLower(text)
	for _, ap := range p.lexicon {
		if strings.Contains(lower, ap.phrase) {
			return ap.attr
		}
	}
	return model.AttrOverview
}

var quotedRe = regexp.MustCompile(`["']([^"']+)["']`)

// extractQuotedName returns an explicitly quoted company name, which always
// wins over heuristics.
func extractQuotedName(text string) string {
	m := quotedRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// interrogatives are words that start questions; a capitalized run beginning
// with one of these is question scaffolding, not a company name.
var interrogatives = map[string]bool{
	"when": true, "where": true, "what": true, "who": true, "why": true,
	"how": true, "which": true, "is": true, "are": true, "was": true,
	"does": true, "did": true, "do": true, "has": true, "have": true,
	"tell": true, "give": true, "show": true, "find": true, "list": true,
}

// connectors may appear inside a company name between capitalized words
// ("Procter & Gamble", "Bank of America").
var connectors = map[string]bool{
	"&": true, "and": true, "of": true, "the": true, "for": true, "de": true,
}

// extractCapitalizedRun finds the longest run of capitalized tokens in the
// text, allowing connector words between capitalized neighbors. Returns ""
// when no run exists.
func extractCapitalizedRun(text string) string {
	words := strings.Fields(text)

	type run struct {
		start, end int // [start, end)
	}
	var best, cur run
	inRun := false

	flush := func(end int) {
		if !inRun {
			return
		}
		cur.end = end
		// Trim trailing connectors left dangling at the end of a run.
		for cur.end > cur.start && connectors[strings.ToLower(trimToken(words[cur.end-1]))] {
			cur.end--
		}
		if cur.end-cur.start > best.end-best.start {
			best = cur
		}
		inRun = false
	}

	for i, w := range words {
		token := trimToken(w)
		if token == "" {
			flush(i)
			continue
		}
		lower := strings.ToLower(token)

		if isCapitalized(token) && !interrogatives[lower] {
			if !inRun {
				cur = run{start: i}
				inRun = true
			}
			continue
		}

		// A connector continues an existing run only when the next word is
		// capitalized too.
		if inRun && connectors[lower] && i+1 < len(words) {
			next := trimToken(words[i+1])
			if isCapitalized(next) && !interrogatives[strings.ToLower(next)] {
				continue
			}
		}

		flush(i)
	}
	flush(len(words))

	if best.end == best.start {
		return ""
	}

	parts := make([]string, 0, best.end-best.start)
	for _, w := range words[best.start:best.end] {
		parts = append(parts, trimToken(w))
	}
	return strings.Join(parts, " ")
}

func trimToken(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsPunct(r) && r != '&' && r != '\'' && r != '-' && r != '.'
	})
}

func isCapitalized(token string) bool {
	for _, r := range token {
		return unicode.IsUpper(r) || unicode.IsDigit(r)
	}
	return false
}
