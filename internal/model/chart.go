package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidChart is returned when an ephemeris produces a chart that cannot be scored.
var ErrInvalidChart = errors.New("invalid chart")

// PlanetPosition is a body's placement at one instant.
type PlanetPosition struct {
	Name        Planet  `json:"name"`
	Sign        Sign    `json:"sign"`
	Longitude   float64 `json:"longitude"`
	DailyMotion float64 `json:"daily_motion"`
	House       int     `json:"house"`
	Retrograde  bool    `json:"retrograde"`
}

// DegreeInSign returns the position within its sign, 0 to 30.
func (p PlanetPosition) DegreeInSign() float64 {
	return math.Mod(NormalizeDegrees(p.Longitude), 30)
}

// ChartAspect is a classified aspect between an unordered pair of planets.
type ChartAspect struct {
	Planet1  Planet     `json:"planet1"`
	Planet2  Planet     `json:"planet2"`
	Kind     AspectKind `json:"kind"`
	Orb      float64    `json:"orb"`
	Applying bool       `json:"applying"`
}

// Involves reports whether the aspect touches the given planet.
func (a ChartAspect) Involves(p Planet) bool {
	return a.Planet1 == p || a.Planet2 == p
}

// Between reports whether the aspect connects exactly the two planets, in either order.
func (a ChartAspect) Between(p1, p2 Planet) bool {
	return (a.Planet1 == p1 && a.Planet2 == p2) || (a.Planet1 == p2 && a.Planet2 == p1)
}

// String formats the aspect for display, e.g. "Sun trine Jupiter (2.1°)".
func (a ChartAspect) String() string {
	return fmt.Sprintf("%s %s %s (%.1f°)", a.Planet1.Display(), a.Kind, a.Planet2.Display(), a.Orb)
}

// Chart is the validated ephemeris output for one instant and location.
type Chart struct {
	Time      time.Time        `json:"time"`
	Planets   []PlanetPosition `json:"planets"`
	Aspects   []ChartAspect    `json:"aspects"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Ascendant float64          `json:"ascendant"`
}

// Planet returns the named planet's position.
func (c *Chart) Planet(name Planet) (PlanetPosition, bool) {
	if c == nil {
		return PlanetPosition{}, false
	}
	for _, p := range c.Planets {
		if p.Name == name {
			return p, true
		}
	}
	return PlanetPosition{}, false
}

// AspectBetween returns the aspect joining two planets, if any.
func (c *Chart) AspectBetween(p1, p2 Planet) (ChartAspect, bool) {
	if c == nil {
		return ChartAspect{}, false
	}
	for _, a := range c.Aspects {
		if a.Between(p1, p2) {
			return a, true
		}
	}
	return ChartAspect{}, false
}

// AspectsTo returns every aspect involving the planet.
func (c *Chart) AspectsTo(p Planet) []ChartAspect {
	if c == nil {
		return nil
	}
	var out []ChartAspect
	for _, a := range c.Aspects {
		if a.Involves(p) {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks the chart shape once at the ephemeris boundary so scoring
// code can rely on it.
func (c *Chart) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil chart", ErrInvalidChart)
	}
	if len(c.Planets) == 0 {
		return fmt.Errorf("%w: no planets", ErrInvalidChart)
	}
	seen := make(map[Planet]bool, len(c.Planets))
	for i, p := range c.Planets {
		if p.Name == "" {
			return fmt.Errorf("%w: planet at index %d has no name", ErrInvalidChart, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate planet %s", ErrInvalidChart, p.Name)
		}
		seen[p.Name] = true
		if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
			return fmt.Errorf("%w: %s longitude is not finite", ErrInvalidChart, p.Name)
		}
		if p.House < 1 || p.House > 12 {
			return fmt.Errorf("%w: %s house %d out of range", ErrInvalidChart, p.Name, p.House)
		}
	}
	pairs := make(map[[2]Planet]bool, len(c.Aspects))
	for i, a := range c.Aspects {
		if a.Kind.Angle() < 0 {
			return fmt.Errorf("%w: aspect at index %d has unknown kind %q", ErrInvalidChart, i, a.Kind)
		}
		if a.Orb < 0 {
			return fmt.Errorf("%w: aspect %s has negative orb", ErrInvalidChart, a)
		}
		if !seen[a.Planet1] || !seen[a.Planet2] {
			return fmt.Errorf("%w: aspect %s names a planet missing from the chart", ErrInvalidChart, a)
		}
		key := [2]Planet{a.Planet1, a.Planet2}
		if a.Planet2 < a.Planet1 {
			key = [2]Planet{a.Planet2, a.Planet1}
		}
		if pairs[key] {
			return fmt.Errorf("%w: more than one aspect between %s and %s", ErrInvalidChart, a.Planet1, a.Planet2)
		}
		pairs[key] = true
	}
	return nil
}

// NormalizeDegrees folds an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
