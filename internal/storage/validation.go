// Package storage provides the data persistence layer for scan history.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidReport    = errors.New("invalid scan report")
	ErrInvalidEvent     = errors.New("invalid event")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateReport(report *model.ScanReport) error {
	if report == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}
	if err := report.Request.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	for i := range report.Events {
		if err := validateEvent(&report.Events[i]); err != nil {
			return fmt.Errorf("event at index %d: %w", i, err)
		}
	}
	return nil
}

func validateEvent(ev *model.Event) error {
	if strings.TrimSpace(ev.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidEvent)
	}
	if len(ev.Date) != len("2006-01-02") {
		return fmt.Errorf("%w: malformed date %q", ErrInvalidEvent, ev.Date)
	}
	if ev.Method == "" {
		return fmt.Errorf("%w: missing method", ErrInvalidEvent)
	}
	return nil
}

// validateDateRange checks an inclusive YYYY-MM-DD range.
func validateDateRange(start, end string) error {
	if err := validateString(start, "start"); err != nil {
		return err
	}
	if err := validateString(end, "end"); err != nil {
		return err
	}
	if end < start {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start, end)
	}
	return nil
}
