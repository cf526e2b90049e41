package answer

import (
	"time"

	"github.com/sells-group/answer-engine/internal/model"
)

// NoDataError is the terminal outcome when no source produced a usable
// value. It carries the parsed query so callers can shape their response.
// errors.Is(err, model.ErrNoData) matches it.
type NoDataError struct {
	Query   model.StructuredQuery
	Results []model.SourceResult
}

func (e *NoDataError) Error() string { return model.ErrNoData.Error() }

func (e *NoDataError) Unwrap() error { return model.ErrNoData }

// NoDataResponse shapes the no-data outcome the way callers see it: zero
// confidence, not ambiguous, reason NO_SUPPORT.
func NoDataResponse(query model.StructuredQuery, results []model.SourceResult, now time.Time) *model.ScoredResponse {
	return &model.ScoredResponse{
		Query:           query,
		Confidence:      0,
		Ambiguous:       false,
		AmbiguityReason: model.ReasonNoSupport,
		Sources:         attributions(results),
		CachedAt:        now.UTC(),
	}
}
