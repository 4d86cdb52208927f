// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists fetch snapshots in a SQLite database. Each
// pipeline run saves the full set of normalized records under a run ID,
// so the ranking step can be replayed from a stored snapshot without
// touching the network.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// ErrNoRuns reports an empty database.
var ErrNoRuns = errors.New("no stored runs")

// Store manages the snapshot SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at path, creating parent
// directories and the schema as needed.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
			source TEXT NOT NULL,
			started_at TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			failure_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			identifier TEXT NOT NULL,
			record TEXT NOT NULL,
			PRIMARY KEY (run_id, identifier)
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			identifier TEXT NOT NULL,
			name TEXT,
			last_error TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_run_id ON authors(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunInfo summarizes one stored run.
type RunInfo struct {
	ID           int64
	Source       string
	StartedAt    time.Time
	RecordCount  int
	FailureCount int
}

// SaveRun stores a fetch snapshot and returns its run ID. Records are
// stored as JSON keyed by identifier; a duplicate identifier within one
// run keeps the first record.
func (s *Store) SaveRun(ctx context.Context, source string, startedAt time.Time, records []types.AuthorRecord, failures []types.FailureEntry) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, started_at, record_count, failure_count) VALUES (?, ?, ?, ?)`,
		source, startedAt.UTC().Format(time.RFC3339), len(records), len(failures),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return 0, fmt.Errorf("encoding record %s: %w", record.ID(), err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO authors (run_id, identifier, record) VALUES (?, ?, ?)`,
			runID, record.ID(), string(data),
		); err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", record.ID(), err)
		}
	}

	for _, failure := range failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, identifier, name, last_error) VALUES (?, ?, ?, ?)`,
			runID, failure.Identifier, failure.Name, failure.LastError,
		); err != nil {
			return 0, fmt.Errorf("inserting failure %s: %w", failure.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recent run's info, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, started_at, record_count, failure_count
		 FROM runs ORDER BY id DESC LIMIT 1`)
	return scanRun(row)
}

// Run returns one run's info by ID, or ErrNoRuns when it does not exist.
func (s *Store) Run(ctx context.Context, id int64) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, started_at, record_count, failure_count
		 FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

func scanRun(row *sql.Row) (RunInfo, error) {
	var info RunInfo
	var startedAt string
	err := row.Scan(&info.ID, &info.Source, &startedAt, &info.RecordCount, &info.FailureCount)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, ErrNoRuns
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("scanning run: %w", err)
	}
	info.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parsing run timestamp: %w", err)
	}
	return info, nil
}

// Records loads all author records stored under a run ID.
func (s *Store) Records(ctx context.Context, runID int64) ([]types.AuthorRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM authors WHERE run_id = ? ORDER BY identifier`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.AuthorRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var record types.AuthorRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Failures loads the failure entries stored under a run ID.
func (s *Store) Failures(ctx context.Context, runID int64) ([]types.FailureEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, name, last_error FROM failures WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var failures []types.FailureEntry
	for rows.Next() {
		var entry types.FailureEntry
		if err := rows.Scan(&entry.Identifier, &entry.Name, &entry.LastError); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		failures = append(failures, entry)
	}
	return failures, rows.Err()
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, started_at, record_count, failure_count
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var startedAt string
		if err := rows.Scan(&info.ID, &info.Source, &startedAt, &info.RecordCount, &info.FailureCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		info.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}
