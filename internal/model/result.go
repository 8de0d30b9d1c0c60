package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is a life area the user wants a moment to favor.
type Priority string

// Supported priorities.
const (
	Career        Priority = "career"
	Love          Priority = "love"
	Money         Priority = "money"
	Health        Priority = "health"
	Creativity    Priority = "creativity"
	Communication Priority = "communication"
	Home          Priority = "home"
	Travel        Priority = "travel"
	Spirituality  Priority = "spirituality"
	Education     Priority = "education"
)

// AllPriorities lists the built-in priorities in display order.
var AllPriorities = []Priority{
	Career, Love, Money, Health, Creativity,
	Communication, Home, Travel, Spirituality, Education,
}

// Display returns the capitalized priority name.
func (p Priority) Display() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// ParsePriorities normalizes user input into priorities, dropping blanks and duplicates.
func ParsePriorities(values []string) []Priority {
	seen := make(map[Priority]bool, len(values))
	out := make([]Priority, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := Priority(strings.ToLower(strings.TrimSpace(part)))
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Method names a scoring method.
type Method string

// Scoring methods.
const (
	MethodHouses     Method = "houses"
	MethodAspects    Method = "aspects"
	MethodElectional Method = "electional"
)

// Methods lists the scoring methods in the order the scanner applies them.
var Methods = []Method{MethodHouses, MethodAspects, MethodElectional}

// MagicFormula is the strength of a detected Sun-Jupiter-Pluto configuration.
type MagicFormula string

// Magic Formula levels.
const (
	MagicNone    MagicFormula = ""
	MagicPartial MagicFormula = "partial"
	MagicFull    MagicFormula = "full"
)

// Bonus returns the additive score bonus for the level.
func (m MagicFormula) Bonus() float64 {
	switch m {
	case MagicFull:
		return 5.0
	case MagicPartial:
		return 2.5
	default:
		return 0
	}
}

// Active reports whether any level of the formula is present.
func (m MagicFormula) Active() bool {
	return m == MagicPartial || m == MagicFull
}

// TimeWindow is the span a consolidated result covers.
type TimeWindow struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"`
	Minutes  int       `json:"minutes"`
}

// TimingResult is one scored moment produced by the scanner.
type TimingResult struct {
	Moment       time.Time    `json:"moment"`
	Chart        *Chart       `json:"chart,omitempty"`
	Window       *TimeWindow  `json:"window,omitempty"`
	Description  string       `json:"description"`
	Method       Method       `json:"method"`
	MagicFormula MagicFormula `json:"magic_formula,omitempty"`
	Priorities   []Priority   `json:"priorities"`
	Score        float64      `json:"score"`
}

// Date returns the calendar day as YYYY-MM-DD.
func (r TimingResult) Date() string {
	return r.Moment.Format("2006-01-02")
}

// Clock returns the time of day as HH:MM.
func (r TimingResult) Clock() string {
	return r.Moment.Format("15:04")
}

// Key identifies a result by date, time and method.
func (r TimingResult) Key() string {
	return fmt.Sprintf("%s %s %s", r.Date(), r.Clock(), r.Method)
}
