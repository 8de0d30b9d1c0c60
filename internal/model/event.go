package model

import (
	"errors"
	"fmt"
	"time"
)

// EventType classifies an event for calendar display.
type EventType string

// Event types derived from score thresholds.
const (
	EventBenefic     EventType = "benefic"
	EventNeutral     EventType = "neutral"
	EventChallenging EventType = "challenging"
)

// MercuryStatus reports Mercury's apparent direction.
type MercuryStatus string

// Mercury directions.
const (
	MercuryDirect     MercuryStatus = "direct"
	MercuryRetrograde MercuryStatus = "retrograde"
	MercuryUnknown    MercuryStatus = "unknown"
)

// Ingress is a slow planet approaching a sign boundary.
type Ingress struct {
	Planet        Planet  `json:"planet"`
	FromSign      Sign    `json:"from_sign"`
	ToSign        Sign    `json:"to_sign"`
	DegreesLeft   float64 `json:"degrees_left"`
	DaysToIngress int     `json:"days_to_ingress"`
}

// Electional carries the election-quality metadata for an event.
type Electional struct {
	MercuryStatus    MercuryStatus `json:"mercury_status"`
	MoonPhase        MoonPhase     `json:"moon_phase"`
	MaleficAspects   []string      `json:"malefic_aspects"`
	DignifiedPlanets []string      `json:"dignified_planets"`
	Prohibitions     []string      `json:"prohibitions"`
	BeneficsAngular  bool          `json:"benefics_angular"`
	VoidOfCourse     bool          `json:"void_of_course"`
	ElectionalReady  bool          `json:"electional_ready"`
}

// Event is a materialized, user-facing timing recommendation.
type Event struct {
	Window        *TimeWindow  `json:"window,omitempty"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Date          string       `json:"date"`
	Time          string       `json:"time"`
	Type          EventType    `json:"type"`
	Method        Method       `json:"method"`
	MagicFormula  MagicFormula `json:"magic_formula,omitempty"`
	JupiterSector string       `json:"jupiter_sector,omitempty"`
	SaturnSector  string       `json:"saturn_sector,omitempty"`
	EconomicPhase string       `json:"economic_phase,omitempty"`
	Priorities    []Priority   `json:"priorities"`
	Aspects       []string     `json:"aspects"`
	Planets       []string     `json:"planets"`
	Ingresses     []Ingress    `json:"ingresses,omitempty"`
	Electional    Electional   `json:"electional"`
	Score         float64      `json:"score"`
}

// ScanRequest describes one month scan.
type ScanRequest struct {
	Location   *time.Location `json:"-"`
	Priorities []Priority     `json:"priorities"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Month      time.Month     `json:"month"`
	Year       int            `json:"year"`
}

// Scan request validation errors.
var (
	ErrNoPriorities    = errors.New("at least one priority is required")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
	ErrInvalidYear     = errors.New("year out of supported range")
	ErrInvalidLocation = errors.New("coordinates out of range")
)

// Validate rejects requests that cannot be scanned.
func (r ScanRequest) Validate() error {
	if len(r.Priorities) == 0 {
		return ErrNoPriorities
	}
	if r.Month < time.January || r.Month > time.December {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, r.Month)
	}
	if r.Year < 1800 || r.Year > 2400 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, r.Year)
	}
	if r.Latitude < -90 || r.Latitude > 90 || r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("%w: lat=%.4f lon=%.4f", ErrInvalidLocation, r.Latitude, r.Longitude)
	}
	return nil
}

// DaysInMonth returns the number of calendar days in the requested month.
func (r ScanRequest) DaysInMonth() int {
	return DaysIn(r.Month, r.Year)
}

// DaysIn returns the number of days in a month.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ScanStats summarizes a scan run.
type ScanStats struct {
	Slots        int           `json:"slots"`
	Errors       int           `json:"errors"`
	RawResults   int           `json:"raw_results"`
	Consolidated int           `json:"consolidated"`
	Selected     int           `json:"selected"`
	Elapsed      time.Duration `json:"elapsed"`
	UsedFallback bool          `json:"used_fallback"`
	Canceled     bool          `json:"canceled"`
}

// ScanReport is the output of a full scan pipeline.
type ScanReport struct {
	CreatedAt time.Time   `json:"created_at"`
	ID        string      `json:"id,omitempty"`
	Request   ScanRequest `json:"request"`
	Events    []Event     `json:"events"`
	Stats     ScanStats   `json:"stats"`
}
