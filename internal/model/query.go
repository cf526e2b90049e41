// Package model holds the core domain types shared across the answer
// pipeline.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Attribute identifies the company facet a query asks about.
type Attribute string

const (
	AttrOverview   Attribute = "overview"
	AttrFounding   Attribute = "founding"
	AttrLocation   Attribute = "location"
	AttrFinancials Attribute = "financials"
	AttrLeadership Attribute = "leadership"
	AttrProducts   Attribute = "products"
	AttrCustomers  Attribute = "customers"
	AttrNews       Attribute = "news"
)

// Attributes lists every supported attribute.
var Attributes = []Attribute{
	AttrOverview,
	AttrFounding,
	AttrLocation,
	AttrFinancials,
	AttrLeadership,
	AttrProducts,
	AttrCustomers,
	AttrNews,
}

// Valid reports whether the attribute is one of the supported values.
func (a Attribute) Valid() bool {
	for _, v := range Attributes {
		if a == v {
			return true
		}
	}
	return false
}

// ErrUnparseable means no company name could be extracted from the query text.
var ErrUnparseable = eris.New("query is unparseable")

// ErrNoData means no source produced a usable value for the query.
var ErrNoData = eris.New("no source data for query")

// StructuredQuery is the parsed form of a user question.
type StructuredQuery struct {
	CompanyName string    `json:"company_name"`
	Attribute   Attribute `json:"attribute"`
	RawText     string    `json:"raw_text"`
	Locale      string    `json:"locale,omitempty"`
}

var keyWhitespaceRe = regexp.MustCompile(`\s+`)

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return keyWhitespaceRe.ReplaceAllString(s, " ")
}

// Fingerprint returns the deterministic cache key for the query. Two queries
// that differ only in raw phrasing share a fingerprint.
func (q StructuredQuery) Fingerprint() string {
	key := normalizeKeyPart(q.CompanyName) + "|" + string(q.Attribute) + "|" + normalizeKeyPart(q.Locale)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
