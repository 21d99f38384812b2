// Package store provides the SQLite-backed run-state store. Sensors only
// ever count against it; writes come from the scheduler side (or the
// seed command during local development).
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/watchdag/watchdag/internal/logger"
)

// Store wraps the database handle for run-state queries.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens (creating if needed) the state database at path.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, log: log.WithComponent("store")}
	s.log.WithFields(map[string]any{"path": path}).Debug("state database opened")
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS workflow_runs (
		run_id      TEXT PRIMARY KEY,
		workflow_id TEXT NOT NULL,
		target_date TEXT NOT NULL,
		state       TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE (workflow_id, target_date)
	);

	CREATE INDEX IF NOT EXISTS idx_workflow_runs_lookup
		ON workflow_runs (workflow_id, state, target_date);

	CREATE TABLE IF NOT EXISTS step_runs (
		run_id      TEXT PRIMARY KEY,
		workflow_id TEXT NOT NULL,
		step_id     TEXT NOT NULL,
		target_date TEXT NOT NULL,
		state       TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE (workflow_id, step_id, target_date)
	);

	CREATE INDEX IF NOT EXISTS idx_step_runs_lookup
		ON step_runs (workflow_id, step_id, state, target_date);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
