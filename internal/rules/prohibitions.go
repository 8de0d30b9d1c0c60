package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// ErrInvalidRules is returned when an injected rule set breaks a table invariant.
var ErrInvalidRules = errors.New("invalid rule set")

// Severity ranks how badly a prohibition spoils an election.
type Severity string

// Severity tiers.
const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityModerate Severity = "moderate"
)

// Prohibition is an electional rule that scales a score down when it fires.
// Multipliers of several firing prohibitions compose multiplicatively.
type Prohibition struct {
	Check       func(chart *model.Chart, date time.Time) bool `json:"-"`
	ID          string                                        `json:"id"`
	Description string                                        `json:"description"`
	Severity    Severity                                      `json:"severity"`
	Multiplier  float64                                       `json:"multiplier"`
}

// Fires reports whether the prohibition applies to the chart. A multiplier of
// exactly 1.0 changes nothing and never counts as firing.
func (p Prohibition) Fires(chart *model.Chart, date time.Time) bool {
	if p.Check == nil || p.Multiplier >= 1.0 {
		return false
	}
	return p.Check(chart, date)
}

// DefaultProhibitions returns the universal prohibitions in application order.
func DefaultProhibitions() []Prohibition {
	return []Prohibition{
		{
			ID:          "mercury_retrograde",
			Description: "Mercury retrograde: contracts, launches and signatures go sideways",
			Severity:    SeverityCritical,
			Multiplier:  0.3,
			Check: func(chart *model.Chart, _ time.Time) bool {
				return astro.IsRetrograde(chart, model.Mercury)
			},
		},
		{
			ID:          "mars_saturn_opposition",
			Description: "Mars opposite Saturn: blocked effort and conflict",
			Severity:    SeverityMajor,
			Multiplier:  0.4,
			Check: func(chart *model.Chart, _ time.Time) bool {
				a, ok := chart.AspectBetween(model.Mars, model.Saturn)
				return ok && a.Kind == model.Opposition
			},
		},
		{
			ID:          "full_moon_launch",
			Description: "Full Moon: culmination, not a beginning",
			Severity:    SeverityModerate,
			Multiplier:  0.6,
			Check: func(chart *model.Chart, _ time.Time) bool {
				phase, ok := astro.MoonPhaseOf(chart)
				return ok && phase == model.FullMoon
			},
		},
		{
			ID:          "malefic_debility",
			Description: "Mars or Saturn in detriment or fall",
			Severity:    SeverityModerate,
			Multiplier:  0.7,
			Check: func(chart *model.Chart, _ time.Time) bool {
				for _, p := range []model.Planet{model.Mars, model.Saturn} {
					if pos, ok := chart.Planet(p); ok && astro.DignityOf(p, pos.Sign).IsDebilitated() {
						return true
					}
				}
				return false
			},
		},
		{
			ID:          "mercury_combust",
			Description: "Mercury combust: the message is burned by the Sun",
			Severity:    SeverityModerate,
			Multiplier:  0.8,
			Check: func(chart *model.Chart, _ time.Time) bool {
				return astro.IsCombust(chart, model.Mercury)
			},
		},
	}
}

// FiringProhibitions returns every prohibition that applies, in table order.
func FiringProhibitions(table []Prohibition, chart *model.Chart, date time.Time) []Prohibition {
	var fired []Prohibition
	for _, p := range table {
		if p.Fires(chart, date) {
			fired = append(fired, p)
		}
	}
	return fired
}

// ValidateProhibitions enforces that every multiplier lies in (0, 1].
func ValidateProhibitions(table []Prohibition) error {
	seen := make(map[string]bool, len(table))
	for _, p := range table {
		if p.ID == "" {
			return fmt.Errorf("%w: prohibition without id", ErrInvalidRules)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate prohibition %q", ErrInvalidRules, p.ID)
		}
		seen[p.ID] = true
		if p.Multiplier <= 0 || p.Multiplier > 1 {
			return fmt.Errorf("%w: prohibition %q multiplier %.2f outside (0, 1]", ErrInvalidRules, p.ID, p.Multiplier)
		}
		if p.Check == nil {
			return fmt.Errorf("%w: prohibition %q has no check", ErrInvalidRules, p.ID)
		}
	}
	return nil
}
