// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a SQLite history of harvested records. It is
// opt-in: a harvest without an archive path never touches it.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

const defaultMaxResults = 20

// Store manages the archive SQLite database.
type Store struct {
	db *sql.DB
}

// Run describes one harvest recorded in the archive.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	QueryURL  string    `json:"query_url" yaml:"query_url"`
	Output    string    `json:"output" yaml:"output"`
	Written   int       `json:"written" yaml:"written"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
}

// Hit is an archived record together with the run that produced it.
type Hit struct {
	types.Record `yaml:",inline"`
	RunID        int64     `json:"run_id" yaml:"run_id"`
	HarvestedAt  time.Time `json:"harvested_at" yaml:"harvested_at"`
}

// Open opens or creates the archive database at path and creates the
// schema if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			query_url TEXT,
			output TEXT,
			written INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			link TEXT NOT NULL,
			keywords TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_link ON records(link)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save records a run and its records in one transaction and returns the
// run ID. Records keep their document order through the position column,
// and absent keywords are stored as NULL.
func (s *Store) Save(ctx context.Context, run Run, records []types.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, query_url, output, written, skipped) VALUES (?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.QueryURL, run.Output, run.Written, run.Skipped,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, position, title, link, keywords) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var kw sql.NullString
		if r.Keywords != nil {
			kw = sql.NullString{String: *r.Keywords, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, i, r.Title, r.Link, kw); err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, query_url, output, written, skipped FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			startedAt string
			queryURL  sql.NullString
			output    sql.NullString
		)
		if err := rows.Scan(&r.ID, &startedAt, &queryURL, &output, &r.Written, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		r.QueryURL = queryURL.String
		r.Output = output.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Search returns archived records whose title or keywords contain every
// whitespace-separated term of query, case-insensitively. Each link is
// reported once, from its most recent run. An empty query matches all.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT r.title, r.link, r.keywords, r.run_id, runs.started_at
		FROM records r
		JOIN runs ON runs.id = r.run_id
		WHERE r.id = (SELECT MAX(r2.id) FROM records r2 WHERE r2.link = r.link)`)

	for _, term := range strings.Fields(query) {
		qb.WriteString(` AND (r.title LIKE ? ESCAPE '\' OR r.keywords LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(term) + "%"
		args = append(args, pattern, pattern)
	}
	qb.WriteString(` ORDER BY r.run_id DESC, r.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h         Hit
			kw        sql.NullString
			startedAt string
		)
		if err := rows.Scan(&h.Title, &h.Link, &kw, &h.RunID, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if kw.Valid {
			v := kw.String
			h.Keywords = &v
		}
		h.HarvestedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// escapeLike escapes LIKE wildcards so terms match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
