// Package ambiguity flags answers a caller should not trust at face value.
package ambiguity

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/answer-engine/internal/entity"
	"github.com/sells-group/answer-engine/internal/model"
)

// EntityLookup resolves a company name to its known index candidates.
type EntityLookup interface {
	LookupCandidates(ctx context.Context, name string) ([]entity.Candidate, error)
}

// Detector applies the ambiguity rules in a fixed order: source conflict
// first, multiple entities second, missing support last. The first matching
// rule wins.
type Detector struct {
	conflictThreshold float64
	index             EntityLookup
}

// NewDetector creates a detector. index may be nil, which disables the
// multiple-entities rule.
func NewDetector(conflictThreshold float64, index EntityLookup) *Detector {
	return &Detector{conflictThreshold: conflictThreshold, index: index}
}

// Detect returns whether the answer is ambiguous and, if so, why.
func (d *Detector) Detect(ctx context.Context, query model.StructuredQuery, answer model.ReconciledAnswer, confidence float64) (bool, string) {
	// Inclusive comparison: a conflicted answer sitting exactly at the
	// threshold is still suspect.
	if len(answer.ConflictingSources) > 0 && confidence <= d.conflictThreshold {
		return true, model.ReasonSourceConflict
	}

	if d.index != nil {
		candidates, err := d.index.LookupCandidates(ctx, query.CompanyName)
		if err != nil {
			// A broken index must not fail or flag an otherwise good answer.
			zap.L().Warn("ambiguity: entity lookup failed",
				zap.String("company", query.CompanyName),
				zap.Error(err),
			)
		} else if len(candidates) > 1 {
			return true, model.ReasonMultipleEntities
		}
	}

	if len(answer.SupportingSources) == 0 {
		return true, model.ReasonNoSupport
	}

	return false, ""
}
