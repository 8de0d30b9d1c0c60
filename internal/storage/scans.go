package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"github.com/google/uuid"
)

const defaultListLimit = 50

// SaveScan persists a report and its events. A missing ID is assigned.
func (s *SQLiteStorage) SaveScan(ctx context.Context, report *model.ScanReport) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReport(report); err != nil {
		return err
	}

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	priorities, err := json.Marshal(report.Request.Priorities)
	if err != nil {
		return fmt.Errorf("failed to encode priorities: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := report.Stats
	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_runs (
			id, year, month, latitude, longitude, priorities, timezone,
			slots, raw_results, consolidated, selected, errors,
			used_fallback, canceled, elapsed_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID, report.Request.Year, int(report.Request.Month),
		report.Request.Latitude, report.Request.Longitude, string(priorities), zoneName(report.Request.Location),
		stats.Slots, stats.RawResults, stats.Consolidated, stats.Selected, stats.Errors,
		stats.UsedFallback, stats.Canceled, stats.Elapsed.Milliseconds(), report.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: scan %s", common.ErrDuplicateEntry, report.ID)
		}
		return fmt.Errorf("failed to save scan: %w", err)
	}

	if err := s.saveEventsTx(ctx, tx, report.ID, report.Events); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveEventsTx(ctx context.Context, tx *sql.Tx, scanID string, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timing_events (scan_id, position, title, date, time, type, method, score, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode event %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx,
			scanID, i, ev.Title, ev.Date, ev.Time, string(ev.Type), string(ev.Method), ev.Score, string(payload),
		); err != nil {
			return fmt.Errorf("failed to save event %d: %w", i, err)
		}
	}
	return nil
}

// GetScan retrieves a report with its events.
func (s *SQLiteStorage) GetScan(ctx context.Context, id string) (*model.ScanReport, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, scanColumns+` WHERE id = ?`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: scan %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	events, err := s.getEventsTx(ctx, s.db, `WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	report.Events = events
	return report, nil
}

// ListScans returns scan summaries, newest first. Events are not loaded.
func (s *SQLiteStorage) ListScans(ctx context.Context, filter service.ScanFilter) ([]model.ScanReport, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Year > 0 {
		where = append(where, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.Month > 0 {
		where = append(where, "month = ?")
		args = append(args, filter.Month)
	}

	query := scanColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []model.ScanReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// DeleteScan removes a report and its events.
func (s *SQLiteStorage) DeleteScan(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timing_events WHERE scan_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM scan_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: scan %s", common.ErrNotFound, id)
	}
	return tx.Commit()
}

// GetEvents returns the events of one scan in their original order.
func (s *SQLiteStorage) GetEvents(ctx context.Context, scanID string) ([]model.Event, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(scanID, "scanID"); err != nil {
		return nil, err
	}
	return s.getEventsTx(ctx, s.db, `WHERE scan_id = ? ORDER BY position`, scanID)
}

// GetEventsByDateRange returns events from all scans whose date falls in the
// inclusive YYYY-MM-DD range, ordered by date and time.
func (s *SQLiteStorage) GetEventsByDateRange(ctx context.Context, start, end string) ([]model.Event, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}
	return s.getEventsTx(ctx, s.db, `WHERE date >= ? AND date <= ? ORDER BY date, time, score DESC`, start, end)
}

func (s *SQLiteStorage) getEventsTx(ctx context.Context, q queryable, clause string, args ...any) ([]model.Event, error) {
	rows, err := q.QueryContext(ctx, `SELECT payload FROM timing_events `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := []model.Event{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		var ev model.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

const scanColumns = `
	SELECT id, year, month, latitude, longitude, priorities, timezone,
		slots, raw_results, consolidated, selected, errors,
		used_fallback, canceled, elapsed_ms, created_at
	FROM scan_runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.ScanReport, error) {
	var (
		report     model.ScanReport
		month      int
		priorities string
		timezone   sql.NullString
		elapsedMS  int64
	)
	err := row.Scan(
		&report.ID, &report.Request.Year, &month,
		&report.Request.Latitude, &report.Request.Longitude, &priorities, &timezone,
		&report.Stats.Slots, &report.Stats.RawResults, &report.Stats.Consolidated,
		&report.Stats.Selected, &report.Stats.Errors,
		&report.Stats.UsedFallback, &report.Stats.Canceled, &elapsedMS, &report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	report.Request.Month = time.Month(month)
	report.Stats.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if err := json.Unmarshal([]byte(priorities), &report.Request.Priorities); err != nil {
		return nil, fmt.Errorf("failed to decode priorities: %w", err)
	}
	if loc, err := time.LoadLocation(timezone.String); err == nil && timezone.Valid {
		report.Request.Location = loc
	}
	return &report, nil
}

func zoneName(loc *time.Location) string {
	if loc == nil {
		return "UTC"
	}
	return loc.String()
}
