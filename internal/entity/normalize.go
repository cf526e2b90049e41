package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// legal suffixes stripped before index comparison, longest first where it
// matters ("co" must not eat "corp").
var legalSuffixes = []string{
	"incorporated", "corporation", "company", "limited", "holdings",
	"group", "inc", "corp", "llc", "llp", "ltd", "plc", "gmbh", "sa", "ag",
	"co",
}

// NormalizeName canonicalizes a company name for disambiguation lookups:
// lowercase, punctuation stripped, legal-form suffixes removed. "Acme Corp."
// and "ACME Corporation" normalize identically.
func NormalizeName(name string) string {
	s := cases.Lower(language.Und).String(name)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	words := strings.Fields(b.String())
	for len(words) > 1 {
		last := words[len(words)-1]
		stripped := false
		for _, suffix := range legalSuffixes {
			if last == suffix {
				words = words[:len(words)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	return strings.Join(words, " ")
}
