package astro

import (
	"math"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// ClassifyAspect finds the tightest aspect between two longitudes within its tolerance.
func ClassifyAspect(lon1, lon2 float64) (model.AspectKind, float64, bool) {
	sep := Separation(lon1, lon2)

	var (
		best    model.AspectKind
		bestOrb = math.Inf(1)
	)
	for _, kind := range model.AspectKinds {
		orb := math.Abs(sep - kind.Angle())
		if orb <= kind.Tolerance() && orb < bestOrb {
			best = kind
			bestOrb = orb
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestOrb, true
}

// isApplying reports whether the orb is shrinking given each planet's daily motion.
func isApplying(p1, p2 model.PlanetPosition, kind model.AspectKind, orb float64) bool {
	const step = 0.1 // days
	future := Separation(p1.Longitude+p1.DailyMotion*step, p2.Longitude+p2.DailyMotion*step)
	return math.Abs(future-kind.Angle()) < orb
}

// ComputeAspects derives every aspect among a planet set. At most one aspect
// is classified per pair.
func ComputeAspects(planets []model.PlanetPosition) []model.ChartAspect {
	var aspects []model.ChartAspect
	for i := 0; i < len(planets); i++ {
		for j := i + 1; j < len(planets); j++ {
			kind, orb, ok := ClassifyAspect(planets[i].Longitude, planets[j].Longitude)
			if !ok {
				continue
			}
			aspects = append(aspects, model.ChartAspect{
				Planet1:  planets[i].Name,
				Planet2:  planets[j].Name,
				Kind:     kind,
				Orb:      math.Round(orb*100) / 100,
				Applying: isApplying(planets[i], planets[j], kind, orb),
			})
		}
	}
	return aspects
}

// IsHarmonious reports trines, sextiles and conjunctions.
func IsHarmonious(kind model.AspectKind) bool {
	return kind == model.Trine || kind == model.Sextile || kind == model.Conjunction
}

// IsHard reports squares, oppositions and quincunxes.
func IsHard(kind model.AspectKind) bool {
	return kind == model.Square || kind == model.Opposition || kind == model.Quincunx
}
