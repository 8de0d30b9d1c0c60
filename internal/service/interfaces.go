// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// Ephemeris computes planetary positions and aspects for an instant and place.
// Implementations must be idempotent for identical inputs.
type Ephemeris interface {
	Positions(ctx context.Context, at time.Time, latitude, longitude float64) (*model.Chart, error)
}

// ScanFilter narrows scan history queries.
type ScanFilter struct {
	Year  int
	Month int
	Limit int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Scan operations
	SaveScan(ctx context.Context, report *model.ScanReport) error
	GetScan(ctx context.Context, id string) (*model.ScanReport, error)
	ListScans(ctx context.Context, filter ScanFilter) ([]model.ScanReport, error)
	DeleteScan(ctx context.Context, id string) error

	// Event operations
	GetEvents(ctx context.Context, scanID string) ([]model.Event, error)
	GetEventsByDateRange(ctx context.Context, start, end string) ([]model.Event, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for remote calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
