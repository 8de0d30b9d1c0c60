package rules

import (
	"fmt"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// Thresholds holds the minimum scores the scanner keeps per method.
type Thresholds struct {
	PerMethod map[model.Method]float64
	// MagicFloor lets Magic Formula moments through regardless of the method threshold.
	MagicFloor float64
}

// For returns the threshold for a method.
func (t Thresholds) For(m model.Method) float64 {
	return t.PerMethod[m]
}

// DefaultThresholds returns the standard scanner thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PerMethod: map[model.Method]float64{
			model.MethodHouses:     0.3,
			model.MethodAspects:    0.2,
			model.MethodElectional: 0.3,
		},
		MagicFloor: 2.0,
	}
}

// ElectionalBonuses are the multipliers applied after prohibitions and the moon phase.
type ElectionalBonuses struct {
	MercuryDirect    float64
	DignifiedJupiter float64
	DignifiedVenus   float64
}

// DefaultElectionalBonuses returns the standard electional bonuses.
func DefaultElectionalBonuses() ElectionalBonuses {
	return ElectionalBonuses{
		MercuryDirect:    1.2,
		DignifiedJupiter: 1.15,
		DignifiedVenus:   1.1,
	}
}

// DefaultMoonPhaseMultipliers returns the growth-oriented moon phase table.
func DefaultMoonPhaseMultipliers() map[model.MoonPhase]float64 {
	return map[model.MoonPhase]float64{
		model.NewMoon:        0.9,
		model.WaxingCrescent: 1.4,
		model.FirstQuarter:   1.2,
		model.WaxingGibbous:  1.3,
		model.FullMoon:       0.6,
		model.WaningGibbous:  0.9,
		model.LastQuarter:    0.8,
		model.WaningCrescent: 0.7,
	}
}

// Set bundles every table the analyzer and scanner consult.
type Set struct {
	Criteria     CriteriaTable
	MoonPhases   map[model.MoonPhase]float64
	Thresholds   Thresholds
	Prohibitions []Prohibition
	Bonuses      ElectionalBonuses
}

// Default returns the built-in rule set.
func Default() Set {
	return Set{
		Criteria:     DefaultCriteria(),
		Prohibitions: DefaultProhibitions(),
		MoonPhases:   DefaultMoonPhaseMultipliers(),
		Thresholds:   DefaultThresholds(),
		Bonuses:      DefaultElectionalBonuses(),
	}
}

// MoonMultiplier returns the multiplier for a phase, 1.0 when unlisted.
func (s Set) MoonMultiplier(phase model.MoonPhase) float64 {
	if m, ok := s.MoonPhases[phase]; ok && m > 0 {
		return m
	}
	return 1.0
}

// Validate checks the invariants every injected rule set must hold.
func (s Set) Validate() error {
	if err := ValidateProhibitions(s.Prohibitions); err != nil {
		return err
	}
	for id, c := range s.Criteria {
		for _, h := range c.Houses {
			if h < 1 || h > 12 {
				return fmt.Errorf("%w: priority %q lists house %d", ErrInvalidRules, id, h)
			}
		}
		for key, w := range c.Weights {
			if w <= 0 {
				return fmt.Errorf("%w: priority %q weight %q must be positive", ErrInvalidRules, id, key)
			}
		}
	}
	for phase, m := range s.MoonPhases {
		if m <= 0 {
			return fmt.Errorf("%w: moon phase %q multiplier must be positive", ErrInvalidRules, phase)
		}
	}
	return nil
}
