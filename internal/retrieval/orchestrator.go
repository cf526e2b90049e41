// Package retrieval fans a query out to every enabled source concurrently.
package retrieval

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/answer-engine/internal/model"
	"github.com/sells-group/answer-engine/internal/source"
)

// Orchestrator runs the concurrent source fan-out with a shared deadline.
type Orchestrator struct {
	registry *source.Registry
	deadline time.Duration
}

// NewOrchestrator creates an orchestrator over the given adapter registry.
// Each adapter gets at most deadline to produce its result.
func NewOrchestrator(registry *source.Registry, deadline time.Duration) *Orchestrator {
	return &Orchestrator{registry: registry, deadline: deadline}
}

// Retrieve fetches the query from every registered adapter concurrently and
// returns exactly one result per adapter. Adapters that fail or miss the
// deadline yield error-tagged results rather than failing the batch. Results
// are ordered by adapter name.
func (o *Orchestrator) Retrieve(ctx context.Context, query model.StructuredQuery) ([]model.SourceResult, error) {
	adapters := o.registry.All()
	if len(adapters) == 0 {
		return nil, nil
	}

	results := make([]model.SourceResult, len(adapters))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, a := range adapters {
		g.Go(func() error {
			res := o.fetchOne(ctx, a, query)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (o *Orchestrator) fetchOne(ctx context.Context, a source.Adapter, query model.StructuredQuery) model.SourceResult {
	fetchCtx := ctx
	var cancel context.CancelFunc
	if o.deadline > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, o.deadline)
		defer cancel()
	}

	start := time.Now()
	res, err := a.Fetch(fetchCtx, query)

	switch {
	case err != nil:
		kind := model.SourceError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			kind = model.SourceTimeout
		}
		zap.L().Warn("retrieval: source fetch failed",
			zap.String("source", a.Name()),
			zap.String("kind", string(kind)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return model.SourceResult{
			SourceID:          a.Name(),
			FetchedAt:         time.Now().UTC(),
			ReliabilityWeight: a.Weight(),
			Error:             kind,
		}
	case res == nil:
		// The source responded but had nothing for this query.
		return model.SourceResult{
			SourceID:          a.Name(),
			FetchedAt:         time.Now().UTC(),
			ReliabilityWeight: a.Weight(),
		}
	default:
		out := *res
		if out.SourceID == "" {
			out.SourceID = a.Name()
		}
		if out.FetchedAt.IsZero() {
			out.FetchedAt = time.Now().UTC()
		}
		if out.ReliabilityWeight == 0 {
			out.ReliabilityWeight = a.Weight()
		}
		zap.L().Debug("retrieval: source fetch completed",
			zap.String("source", a.Name()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return out
	}
}
