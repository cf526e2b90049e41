package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-engine/internal/model"
)

// pgxPool is the subset of pgxpool.Pool the store uses, extracted so tests
// can substitute pgxmock.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore is the shared multi-node cache backend.
type PostgresStore struct {
	pool pgxPool

	nowFunc func() time.Time // test injection
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS answer_cache (
	fingerprint TEXT PRIMARY KEY,
	response    JSONB NOT NULL,
	cached_at   TIMESTAMPTZ NOT NULL,
	expires_at  TIMESTAMPTZ NOT NULL
)`

// NewPostgresStore connects to databaseURL and ensures the cache table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "cache: connect postgres")
	}

	s := &PostgresStore{pool: pool, nowFunc: time.Now}
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "cache: create schema")
	}
	return s, nil
}

// Get returns the cached response, treating expired rows as misses.
func (s *PostgresStore) Get(ctx context.Context, fingerprint string) (*model.ScoredResponse, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT response FROM answer_cache WHERE fingerprint = $1 AND expires_at > $2`,
		fingerprint, s.nowFunc().UTC(),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "cache: get")
	}

	var resp model.ScoredResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, eris.Wrap(err, "cache: decode response")
	}
	return &resp, nil
}

// Put upserts a response with the given TTL.
func (s *PostgresStore) Put(ctx context.Context, fingerprint string, resp *model.ScoredResponse, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "cache: encode response")
	}

	now := s.nowFunc().UTC()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO answer_cache (fingerprint, response, cached_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fingerprint) DO UPDATE SET
			response = EXCLUDED.response,
			cached_at = EXCLUDED.cached_at,
			expires_at = EXCLUDED.expires_at`,
		fingerprint, payload, now, now.Add(ttl),
	)
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	return nil
}

// DeleteExpired purges rows past their expiry.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM answer_cache WHERE expires_at <= $1`, s.nowFunc().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: delete expired")
	}
	return tag.RowsAffected(), nil
}

// Stats counts total and expired rows.
func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE expires_at <= $1)
		FROM answer_cache`, s.nowFunc().UTC(),
	).Scan(&st.Total, &st.Expired)
	if err != nil {
		return Stats{}, eris.Wrap(err, "cache: stats")
	}
	return st, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
