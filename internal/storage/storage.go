// Package storage provides SQLite-backed persistence for resolved runs.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rewired-gh/astrotrader/internal/models"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by GetRun for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

// Storage wraps a SQLite database holding the run ledger.
type Storage struct {
	db      *sql.DB
	maxRuns int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/astrotrader/runs.db.
func New(maxRuns int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "astrotrader", "runs.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxRuns: maxRuns}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			asset         TEXT NOT NULL,
			model         TEXT NOT NULL,
			natal_date    TEXT NOT NULL,
			source_file   TEXT NOT NULL,
			minimal_date  INTEGER NOT NULL,
			min_precision REAL NOT NULL,
			partitions    INTEGER NOT NULL,
			parameters    TEXT NOT NULL DEFAULT '{}',
			resolved_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_resolved_at ON runs(resolved_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_asset ON runs(asset)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun inserts run and trims the ledger to the newest maxRuns entries.
func (s *Storage) RecordRun(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}
	paramsJSON, err := json.Marshal(run.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO runs
			(id, asset, model, natal_date, source_file, minimal_date,
			 min_precision, partitions, parameters, resolved_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.Asset, run.Model, run.NatalDate, run.SourceFile,
		run.MinimalDate.UnixNano(), run.MinPrecision, run.Partitions,
		string(paramsJSON), run.ResolvedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if _, err = tx.Exec(`
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY resolved_at DESC LIMIT ?
		)`, s.maxRuns); err != nil {
		return fmt.Errorf("failed to enforce run cap: %w", err)
	}

	return tx.Commit()
}

// GetRun returns the run with the given ID.
func (s *Storage) GetRun(id string) (*models.Run, error) {
	row := s.db.QueryRow(`SELECT `+runCols+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Storage) ListRuns(limit int) ([]*models.Run, error) {
	rows, err := s.db.Query(`SELECT `+runCols+` FROM runs ORDER BY resolved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()
	runs := []*models.Run{}
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

const runCols = `id, asset, model, natal_date, source_file, minimal_date,
	min_precision, partitions, parameters, resolved_at`

func scanRun(scan func(...any) error) (*models.Run, error) {
	var r models.Run
	var minimalNano, resolvedNano int64
	var paramsJSON string
	err := scan(
		&r.ID, &r.Asset, &r.Model, &r.NatalDate, &r.SourceFile, &minimalNano,
		&r.MinPrecision, &r.Partitions, &paramsJSON, &resolvedNano,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(paramsJSON), &r.Parameters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	r.MinimalDate = time.Unix(0, minimalNano).UTC()
	r.ResolvedAt = time.Unix(0, resolvedNano)
	return &r, nil
}
