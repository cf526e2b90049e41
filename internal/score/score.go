// Package score computes the confidence of a reconciled answer.
package score

import "github.com/sells-group/answer-engine/internal/model"

// MaxConfidence caps every score; external sources never justify certainty.
const MaxConfidence = 0.99

// Scorer computes answer confidence from source agreement and health.
type Scorer struct {
	errorPenalty float64
}

// NewScorer creates a scorer. errorPenalty scales the reduction applied per
// fraction of errored adapters: with 0.5, an all-errored fan-out halves the
// score.
func NewScorer(errorPenalty float64) *Scorer {
	return &Scorer{errorPenalty: errorPenalty}
}

// Score returns the confidence for an answer given the full result set it was
// reconciled from. The base score is the weight fraction of non-absent sources
// that support the winning value, discounted by the fraction of sources that
// errored outright.
func (s *Scorer) Score(answer model.ReconciledAnswer, results []model.SourceResult) float64 {
	supporting := make(map[string]bool, len(answer.SupportingSources))
	for _, id := range answer.SupportingSources {
		supporting[id] = true
	}

	var supportWeight, nonAbsentWeight float64
	var errored int
	for _, r := range results {
		if r.Error != "" {
			errored++
		}
		if r.Absent() {
			continue
		}
		nonAbsentWeight += r.ReliabilityWeight
		if supporting[r.SourceID] {
			supportWeight += r.ReliabilityWeight
		}
	}

	if nonAbsentWeight == 0 {
		return 0
	}

	confidence := supportWeight / nonAbsentWeight
	if len(results) > 0 && errored > 0 {
		errFrac := float64(errored) / float64(len(results))
		confidence *= 1 - s.errorPenalty*errFrac
	}

	return clamp(confidence, 0, MaxConfidence)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
