package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS scan_runs (
					id TEXT PRIMARY KEY,
					year INTEGER NOT NULL,
					month INTEGER NOT NULL,
					latitude REAL NOT NULL,
					longitude REAL NOT NULL,
					priorities TEXT NOT NULL,
					slots INTEGER DEFAULT 0,
					raw_results INTEGER DEFAULT 0,
					consolidated INTEGER DEFAULT 0,
					selected INTEGER DEFAULT 0,
					errors INTEGER DEFAULT 0,
					used_fallback BOOLEAN DEFAULT 0,
					canceled BOOLEAN DEFAULT 0,
					elapsed_ms INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_scan_runs_period ON scan_runs(year, month)`,

				`CREATE TABLE IF NOT EXISTS timing_events (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					scan_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					title TEXT NOT NULL,
					date TEXT NOT NULL,
					time TEXT NOT NULL,
					type TEXT NOT NULL,
					method TEXT NOT NULL,
					score REAL NOT NULL,
					payload TEXT NOT NULL,
					FOREIGN KEY (scan_id) REFERENCES scan_runs(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_timing_events_scan ON timing_events(scan_id, position)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Index timing events by date",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_timing_events_date ON timing_events(date, time)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Record scan time zone",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE scan_runs ADD COLUMN timezone TEXT DEFAULT 'UTC'`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
