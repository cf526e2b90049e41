// Package cache persists scored responses keyed by query fingerprint.
package cache

import (
	"context"
	"time"

	"github.com/sells-group/answer-engine/internal/model"
)

// Store is a TTL'd response cache. Implementations check expiry at read time;
// an expired row is a miss even before it is purged.
type Store interface {
	// Get returns the cached response for a fingerprint, or (nil, nil) on a
	// miss.
	Get(ctx context.Context, fingerprint string) (*model.ScoredResponse, error)
	// Put stores a response under its fingerprint with the given TTL,
	// replacing any previous entry.
	Put(ctx context.Context, fingerprint string, resp *model.ScoredResponse, ttl time.Duration) error
	// DeleteExpired removes rows past their expiry and reports how many.
	DeleteExpired(ctx context.Context) (int64, error)
	// Stats summarizes the cache contents.
	Stats(ctx context.Context) (Stats, error)
	// Close releases the underlying store.
	Close() error
}

// Stats summarizes cache contents at a point in time.
type Stats struct {
	Total   int64
	Expired int64
}
