// Package reconcile merges multi-source results into a single winning value.
package reconcile

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/answer-engine/internal/model"
)

// Normalize canonicalizes a value for equivalence grouping: lowercase, strip
// punctuation, collapse whitespace. "1987." and "1987" reconcile to the same
// group.
func Normalize(s string) string {
	// cases.Caser carries state, so a fresh one per call.
	s = cases.Lower(language.Und).String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type group struct {
	value       string // raw form from the heaviest member, smallest ID on ties
	valueSource string
	valueWeight float64
	normalized  string
	sources     []string
	totalWeight float64
	latest      int64 // most recent FetchedAt, unix nanos
}

// Reconcile groups non-absent results by normalized value and picks a winner.
// The winning group has the highest total reliability weight; ties break by
// most recent fetch time, then by lexicographically smallest source ID. The
// outcome is independent of input order. Returns model.ErrNoData when every
// result is absent.
func Reconcile(results []model.SourceResult) (model.ReconciledAnswer, error) {
	groups := make(map[string]*group)
	for _, r := range results {
		if r.Absent() {
			continue
		}
		norm := Normalize(r.Value)
		if norm == "" {
			continue
		}
		g, ok := groups[norm]
		if !ok {
			g = &group{normalized: norm}
			groups[norm] = g
		}
		if g.valueSource == "" ||
			r.ReliabilityWeight > g.valueWeight ||
			(r.ReliabilityWeight == g.valueWeight && r.SourceID < g.valueSource) {
			g.value = r.Value
			g.valueSource = r.SourceID
			g.valueWeight = r.ReliabilityWeight
		}
		g.sources = append(g.sources, r.SourceID)
		g.totalWeight += r.ReliabilityWeight
		if t := r.FetchedAt.UnixNano(); t > g.latest {
			g.latest = t
		}
	}

	if len(groups) == 0 {
		return model.ReconciledAnswer{}, model.ErrNoData
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		sort.Strings(g.sources)
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.totalWeight != b.totalWeight {
			return a.totalWeight > b.totalWeight
		}
		if a.latest != b.latest {
			return a.latest > b.latest
		}
		return a.sources[0] < b.sources[0]
	})

	winner := ordered[0]
	answer := model.ReconciledAnswer{
		Value:             winner.value,
		SupportingSources: winner.sources,
	}
	for _, g := range ordered[1:] {
		answer.ConflictingSources = append(answer.ConflictingSources, g.sources...)
	}
	sort.Strings(answer.ConflictingSources)

	return answer, nil
}
