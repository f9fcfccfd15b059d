// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of stage executions. The history is
// informational: whether a stage runs is decided by the files on disk.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdftable/pkg/types"
)

const defaultLimit = 50

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path and creates its schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stage_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stage TEXT NOT NULL,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			status TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stage_events_output ON stage_events(output)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one event.
func (s *Store) Record(ev types.StageEvent) error {
	if ev.RecordedAt.IsZero() {
		ev.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO stage_events (stage, source, output, status, duration_ns, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Stage, ev.Source, ev.Output, string(ev.Status),
		int64(ev.Duration), ev.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s event for %s: %w", ev.Stage, ev.Output, err)
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit
// uses the default of 50.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.StageEvent, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, source, output, status, duration_ns, recorded_at
		 FROM stage_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var events []types.StageEvent
	for rows.Next() {
		var (
			ev         types.StageEvent
			status     string
			durationNS int64
			recordedAt string
		)
		if err := rows.Scan(&ev.Stage, &ev.Source, &ev.Output, &status, &durationNS, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		ev.Status = types.StageStatus(status)
		ev.Duration = time.Duration(durationNS)
		t, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger row: recorded_at %q: %w", recordedAt, err)
		}
		ev.RecordedAt = t
		events = append(events, ev)
	}
	return events, rows.Err()
}
