package astro

import (
	"math"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// CombustionOrb is the distance from the Sun inside which a planet is combust.
const CombustionOrb = 8.0

// IsRetrograde reports whether the planet is moving backwards. A missing planet is direct.
func IsRetrograde(chart *model.Chart, planet model.Planet) bool {
	pos, ok := chart.Planet(planet)
	if !ok {
		return false
	}
	return pos.Retrograde || pos.DailyMotion < 0
}

// MercuryStatusOf reports Mercury's direction in the chart.
func MercuryStatusOf(chart *model.Chart) model.MercuryStatus {
	if _, ok := chart.Planet(model.Mercury); !ok {
		return model.MercuryUnknown
	}
	if IsRetrograde(chart, model.Mercury) {
		return model.MercuryRetrograde
	}
	return model.MercuryDirect
}

// MoonElongation returns the Moon's angular distance ahead of the Sun, 0 to 360.
func MoonElongation(chart *model.Chart) (float64, bool) {
	sun, okSun := chart.Planet(model.Sun)
	moon, okMoon := chart.Planet(model.Moon)
	if !okSun || !okMoon {
		return 0, false
	}
	return model.NormalizeDegrees(moon.Longitude - sun.Longitude), true
}

// MoonPhaseOf returns the lunar phase, each phase spanning 45° of elongation
// centered on its exact angle.
func MoonPhaseOf(chart *model.Chart) (model.MoonPhase, bool) {
	elong, ok := MoonElongation(chart)
	if !ok {
		return "", false
	}
	return PhaseForElongation(elong), true
}

// PhaseForElongation maps a Sun-Moon elongation to a phase.
func PhaseForElongation(elongation float64) model.MoonPhase {
	idx := int(math.Floor(model.NormalizeDegrees(elongation+22.5)/45)) % len(model.MoonPhases)
	return model.MoonPhases[idx]
}

// IsCombust reports whether a planet sits within CombustionOrb of the Sun.
func IsCombust(chart *model.Chart, planet model.Planet) bool {
	if planet == model.Sun {
		return false
	}
	sun, okSun := chart.Planet(model.Sun)
	pos, ok := chart.Planet(planet)
	if !okSun || !ok {
		return false
	}
	return Separation(sun.Longitude, pos.Longitude) <= CombustionOrb
}
