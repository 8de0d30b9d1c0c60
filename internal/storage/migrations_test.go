package storage

import (
	"context"
	"testing"
	"time"
)

// TestMigration3_TimezoneDefault checks that rows written before the timezone
// column existed read back as UTC.
func TestMigration3_TimezoneDefault(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO scan_runs (id, year, month, latitude, longitude, priorities)
		VALUES ('legacy', 2024, 12, 0, 0, '["career"]')
	`)
	if err != nil {
		t.Fatalf("Failed to insert legacy row: %v", err)
	}

	report, err := store.GetScan(ctx, "legacy")
	if err != nil {
		t.Fatalf("Failed to get legacy scan: %v", err)
	}
	if report.Request.Location != time.UTC {
		t.Errorf("Legacy scan location = %v, want UTC", report.Request.Location)
	}
	if report.Request.Month != time.December {
		t.Errorf("Legacy scan month = %v, want December", report.Request.Month)
	}
	if len(report.Events) != 0 {
		t.Errorf("Legacy scan has %d events, want 0", len(report.Events))
	}
}

// TestMigrations_Ordered guards against gaps or reordering in the migration list.
func TestMigrations_Ordered(t *testing.T) {
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("Migration at index %d has version %d, want %d", i, m.Version, i+1)
		}
		if m.Description == "" {
			t.Errorf("Migration %d has no description", m.Version)
		}
	}
	if last := migrations[len(migrations)-1].Version; last != ExpectedSchemaVersion {
		t.Errorf("Last migration is %d, ExpectedSchemaVersion is %d", last, ExpectedSchemaVersion)
	}
}
