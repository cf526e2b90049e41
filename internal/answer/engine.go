// Package answer wires the full query pipeline: parse, cache, retrieve,
// reconcile, score, detect, respond.
package answer

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/answer-engine/internal/ambiguity"
	"github.com/sells-group/answer-engine/internal/cache"
	"github.com/sells-group/answer-engine/internal/config"
	"github.com/sells-group/answer-engine/internal/intent"
	"github.com/sells-group/answer-engine/internal/model"
	"github.com/sells-group/answer-engine/internal/reconcile"
	"github.com/sells-group/answer-engine/internal/retrieval"
	"github.com/sells-group/answer-engine/internal/score"
)

// Engine answers company questions end to end.
type Engine struct {
	parser       *intent.Parser
	store        cache.Store // nil disables caching
	orchestrator *retrieval.Orchestrator
	scorer       *score.Scorer
	detector     *ambiguity.Detector
	cacheCfg     config.CacheConfig

	nowFunc func() time.Time // test injection
}

// NewEngine assembles the pipeline. store may be nil to run uncached.
func NewEngine(
	parser *intent.Parser,
	store cache.Store,
	orchestrator *retrieval.Orchestrator,
	scorer *score.Scorer,
	detector *ambiguity.Detector,
	cacheCfg config.CacheConfig,
) *Engine {
	return &Engine{
		parser:       parser,
		store:        store,
		orchestrator: orchestrator,
		scorer:       scorer,
		detector:     detector,
		cacheCfg:     cacheCfg,
		nowFunc:      time.Now,
	}
}

// AnswerQuery answers one raw question. Returns model.ErrUnparseable when no
// company can be extracted and model.ErrNoData when no source produced a
// value. Cache hits are returned exactly as stored; cache failures degrade to
// uncached operation rather than failing the query.
func (e *Engine) AnswerQuery(ctx context.Context, rawText string) (*model.ScoredResponse, error) {
	query, err := e.parser.Parse(ctx, rawText)
	if err != nil {
		return nil, err
	}

	fingerprint := query.Fingerprint()
	if e.store != nil {
		cached, err := e.store.Get(ctx, fingerprint)
		if err != nil {
			zap.L().Warn("answer: cache read failed, treating as miss",
				zap.String("fingerprint", fingerprint),
				zap.Error(err),
			)
		} else if cached != nil {
			zap.L().Debug("answer: cache hit",
				zap.String("company", query.CompanyName),
				zap.String("attribute", string(query.Attribute)),
			)
			return cached, nil
		}
	}

	results, err := e.orchestrator.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	reconciled, err := reconcile.Reconcile(results)
	if err != nil {
		if errors.Is(err, model.ErrNoData) {
			return nil, &NoDataError{Query: query, Results: results}
		}
		return nil, err
	}

	confidence := e.scorer.Score(reconciled, results)
	ambiguous, reason := e.detector.Detect(ctx, query, reconciled, confidence)

	resp := &model.ScoredResponse{
		Query:           query,
		Answer:          reconciled,
		Confidence:      confidence,
		Ambiguous:       ambiguous,
		AmbiguityReason: reason,
		Sources:         attributions(results),
		CachedAt:        e.nowFunc().UTC(),
	}

	if e.store != nil {
		ttl := e.cacheCfg.TTLFor(string(query.Attribute))
		if err := e.store.Put(ctx, fingerprint, resp, ttl); err != nil {
			zap.L().Warn("answer: cache write failed",
				zap.String("fingerprint", fingerprint),
				zap.Error(err),
			)
		}
	}

	return resp, nil
}

// attributions lists every consulted source, highest weight first, name as
// the tie-break.
func attributions(results []model.SourceResult) []model.SourceAttribution {
	out := make([]model.SourceAttribution, 0, len(results))
	for _, r := range results {
		out = append(out, model.SourceAttribution{
			SourceID: r.SourceID,
			Weight:   r.ReliabilityWeight,
			Error:    r.Error,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].SourceID < out[j].SourceID
	})
	return out
}
