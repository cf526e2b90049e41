// Package entity maintains the company disambiguation index.
package entity

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Candidate is one known company matching a queried name.
type Candidate struct {
	ID          string
	Name        string
	Description string
	Region      string
}

// Index is a SQLite-backed registry of known companies, keyed by normalized
// name. Multiple candidates under one normalized name signal an ambiguous
// query.
type Index struct {
	db *sql.DB
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS entities (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	region          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_entities_normalized ON entities(normalized_name);
`

// OpenIndex opens (and if needed creates) the index database at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "entity: open index")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "entity: exec %s", p)
		}
	}

	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "entity: create schema")
	}

	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// LookupCandidates returns every known company whose normalized name matches
// the queried name.
func (ix *Index) LookupCandidates(ctx context.Context, name string) ([]Candidate, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT id, name, description, region FROM entities WHERE normalized_name = ? ORDER BY name`,
		NormalizeName(name),
	)
	if err != nil {
		return nil, eris.Wrap(err, "entity: query candidates")
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Region); err != nil {
			return nil, eris.Wrap(err, "entity: scan candidate")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "entity: iterate candidates")
	}
	return out, nil
}

// Add inserts or replaces one company in the index. A blank ID gets a
// generated UUID.
func (ix *Index) Add(ctx context.Context, c Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO entities (id, name, normalized_name, description, region)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			normalized_name = excluded.normalized_name,
			description = excluded.description,
			region = excluded.region`,
		c.ID, c.Name, NormalizeName(c.Name), c.Description, c.Region,
	)
	if err != nil {
		return eris.Wrapf(err, "entity: upsert %s", c.Name)
	}
	return nil
}

// ImportCSV loads companies from a CSV file with a header row of
// name,description,region (description and region optional). Returns the
// number of rows imported.
func (ix *Index) ImportCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "entity: open csv %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, eris.Wrap(err, "entity: read csv header")
	}
	col := map[string]int{}
	for i, h := range header {
		col[h] = i
	}
	nameIdx, ok := col["name"]
	if !ok {
		return 0, eris.New("entity: csv missing name column")
	}

	field := func(record []string, name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return record[i]
		}
		return ""
	}

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, eris.Wrap(err, "entity: read csv row")
		}
		if nameIdx >= len(record) || record[nameIdx] == "" {
			continue
		}
		c := Candidate{
			Name:        record[nameIdx],
			Description: field(record, "description"),
			Region:      field(record, "region"),
		}
		if err := ix.Add(ctx, c); err != nil {
			return count, err
		}
		count++
	}

	zap.L().Info("entity: imported companies",
		zap.String("path", path),
		zap.Int("count", count),
	)
	return count, nil
}
