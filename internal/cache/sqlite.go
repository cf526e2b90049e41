package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/answer-engine/internal/model"
)

// SQLiteStore is the default single-node cache backend.
type SQLiteStore struct {
	db *sql.DB

	nowFunc func() time.Time // test injection
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS answer_cache (
	fingerprint TEXT PRIMARY KEY,
	response    TEXT NOT NULL,
	cached_at   DATETIME NOT NULL,
	expires_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answer_cache_expires ON answer_cache(expires_at);
`

// NewSQLiteStore opens (and if needed creates) a cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open sqlite")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", p)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: create schema")
	}

	return &SQLiteStore{db: db, nowFunc: time.Now}, nil
}

// Get returns the cached response, treating expired rows as misses.
func (s *SQLiteStore) Get(ctx context.Context, fingerprint string) (*model.ScoredResponse, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT response FROM answer_cache WHERE fingerprint = ? AND expires_at > ?`,
		fingerprint, s.nowFunc().UTC(),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "cache: get")
	}

	var resp model.ScoredResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, eris.Wrap(err, "cache: decode response")
	}
	return &resp, nil
}

// Put upserts a response with the given TTL.
func (s *SQLiteStore) Put(ctx context.Context, fingerprint string, resp *model.ScoredResponse, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "cache: encode response")
	}

	now := s.nowFunc().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO answer_cache (fingerprint, response, cached_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			response = excluded.response,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at`,
		fingerprint, string(payload), now, now.Add(ttl),
	)
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	return nil
}

// DeleteExpired purges rows past their expiry.
func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM answer_cache WHERE expires_at <= ?`, s.nowFunc().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: delete expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "cache: rows affected")
	}
	return n, nil
}

// Stats counts total and expired rows.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(CASE WHEN expires_at <= ? THEN 1 END)
		FROM answer_cache`, s.nowFunc().UTC(),
	).Scan(&st.Total, &st.Expired)
	if err != nil {
		return Stats{}, eris.Wrap(err, "cache: stats")
	}
	return st, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
