// Package patterns detects special configurations that enrich scoring and labels.
package patterns

import (
	"math"
	"sort"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// MagicFormulaOrb is the widest orb that counts toward the Magic Formula.
const MagicFormulaOrb = 8.0

// DetectMagicFormula looks for the Sun-Jupiter-Pluto configuration in live aspect data.
// All three pairs in aspect is full; Jupiter-Pluto plus one Sun contact is partial.
func DetectMagicFormula(chart *model.Chart) model.MagicFormula {
	jupiterPluto := hasAspect(chart, model.Jupiter, model.Pluto)
	if !jupiterPluto {
		return model.MagicNone
	}
	sunJupiter := hasAspect(chart, model.Sun, model.Jupiter)
	sunPluto := hasAspect(chart, model.Sun, model.Pluto)
	switch {
	case sunJupiter && sunPluto:
		return model.MagicFull
	case sunJupiter || sunPluto:
		return model.MagicPartial
	default:
		return model.MagicNone
	}
}

func hasAspect(chart *model.Chart, p1, p2 model.Planet) bool {
	a, ok := chart.AspectBetween(p1, p2)
	return ok && a.Orb <= MagicFormulaOrb
}

var sectors = map[model.Sign]string{
	model.Aries:       "energy & defense",
	model.Taurus:      "banking & agriculture",
	model.Gemini:      "media & telecommunications",
	model.Cancer:      "real estate & food",
	model.Leo:         "entertainment & luxury",
	model.Virgo:       "healthcare & services",
	model.Libra:       "design & diplomacy",
	model.Scorpio:     "finance & insurance",
	model.Sagittarius: "travel & education",
	model.Capricorn:   "government & infrastructure",
	model.Aquarius:    "technology & aviation",
	model.Pisces:      "pharmaceuticals & shipping",
}

// JupiterSector names the economic sector Jupiter favors from its sign.
func JupiterSector(chart *model.Chart) string {
	pos, ok := chart.Planet(model.Jupiter)
	if !ok {
		return ""
	}
	return sectors[pos.Sign]
}

// SaturnRestriction names the economic sector Saturn constrains from its sign.
func SaturnRestriction(chart *model.Chart) string {
	pos, ok := chart.Planet(model.Saturn)
	if !ok {
		return ""
	}
	return sectors[pos.Sign]
}

const (
	ingressOrb        = 3.0
	daysPerDegree     = 2.0
	maxDaysToIngress  = 21
	voidMoonThreshold = 28.0
	voidMoonOrb       = 1.0
)

var ingressPlanets = []model.Planet{model.Jupiter, model.Saturn, model.Mars, model.Venus}

// IngressWindows flags slow planets within 3° of the sign boundary they are
// moving toward. Days to ingress use a flat two days per degree estimate.
func IngressWindows(chart *model.Chart) []model.Ingress {
	var out []model.Ingress
	for _, p := range ingressPlanets {
		pos, ok := chart.Planet(p)
		if !ok {
			continue
		}
		deg := pos.DegreeInSign()
		retro := pos.Retrograde || pos.DailyMotion < 0

		left := 30 - deg
		to := astro.NextSign(pos.Sign)
		if retro {
			left = deg
			to = astro.PreviousSign(pos.Sign)
		}
		if left > ingressOrb {
			continue
		}
		days := int(math.Ceil(left * daysPerDegree))
		if days > maxDaysToIngress {
			continue
		}
		out = append(out, model.Ingress{
			Planet:        p,
			FromSign:      pos.Sign,
			ToSign:        to,
			DegreesLeft:   math.Round(left*100) / 100,
			DaysToIngress: days,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysToIngress < out[j].DaysToIngress
	})
	return out
}

// IsVoidOfCourse approximates a void Moon: late in its sign with no tight aspect left.
func IsVoidOfCourse(chart *model.Chart) bool {
	moon, ok := chart.Planet(model.Moon)
	if !ok || moon.DegreeInSign() < voidMoonThreshold {
		return false
	}
	for _, a := range chart.AspectsTo(model.Moon) {
		if a.Orb < voidMoonOrb {
			return false
		}
	}
	return true
}

// Economic cycle phases keyed off the Jupiter-Saturn synodic angle.
const (
	PhaseRecovery    = "recovery"
	PhaseExpansion   = "expansion"
	PhasePeak        = "peak"
	PhaseContraction = "contraction"
)

// EconomicPhase maps Jupiter's lead over Saturn onto a four-part business cycle.
func EconomicPhase(chart *model.Chart) string {
	jup, okJ := chart.Planet(model.Jupiter)
	sat, okS := chart.Planet(model.Saturn)
	if !okJ || !okS {
		return ""
	}
	angle := model.NormalizeDegrees(jup.Longitude - sat.Longitude)
	switch {
	case angle < 90:
		return PhaseRecovery
	case angle < 180:
		return PhaseExpansion
	case angle < 270:
		return PhasePeak
	default:
		return PhaseContraction
	}
}
