// Package testutil provides test utilities: an in-memory database, a chart
// builder and scripted ephemeris oracles.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new migrated in-memory database that is closed when
// the test finishes.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.MustSaveScan(report)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustSaveScan persists a report or fails the test.
func (db *TestDB) MustSaveScan(report *model.ScanReport) {
	db.t.Helper()
	if err := db.Storage.SaveScan(context.Background(), report); err != nil {
		db.t.Fatalf("failed to save scan: %v", err)
	}
}
