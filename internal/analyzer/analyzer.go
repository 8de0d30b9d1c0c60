// Package analyzer scores a chart against a set of life priorities using one
// of three methods: house placements, aspects only, or electional rules.
package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/patterns"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
)

// Score bounds shared by every method.
const (
	MinScore = 0.0
	MaxScore = 15.0
)

const (
	houseAspectImportance = 1.0
	aspectOnlyImportance  = 1.8
	favorableAspectScale  = 0.5
	challengingScale      = 0.8
	bothRelevantPenalty   = 3.0
	oneRelevantPenalty    = 1.5
)

// Breakdown explains how a score was reached.
type Breakdown struct {
	Method         model.Method
	MoonPhase      model.MoonPhase
	Magic          model.MagicFormula
	Prohibitions   []rules.Prohibition
	Bonuses        []string
	Base           float64
	Final          float64
	MoonMultiplier float64
}

// Analyzer scores charts with an injected rule set.
type Analyzer struct {
	rules rules.Set
}

// New creates an analyzer over the given rules.
func New(set rules.Set) *Analyzer {
	return &Analyzer{rules: set}
}

// Rules returns the rule set the analyzer was built with.
func (a *Analyzer) Rules() rules.Set {
	return a.rules
}

// Score returns the final score for a chart, clamped to [0, 15].
func (a *Analyzer) Score(chart *model.Chart, priorities []model.Priority, method model.Method, date time.Time) float64 {
	return a.Evaluate(chart, priorities, method, date).Final
}

// Evaluate scores a chart and reports the intermediate terms.
func (a *Analyzer) Evaluate(chart *model.Chart, priorities []model.Priority, method model.Method, date time.Time) Breakdown {
	b := Breakdown{
		Method:         method,
		MoonMultiplier: 1.0,
	}
	if chart == nil {
		return b
	}
	b.Magic = patterns.DetectMagicFormula(chart)

	switch method {
	case model.MethodAspects:
		b.Base = Clamp(a.aspectTerms(chart, priorities, aspectOnlyImportance))
	case model.MethodElectional:
		a.electional(chart, priorities, date, &b)
	default:
		b.Base = Clamp(a.houseRaw(chart, priorities))
	}

	b.Final = Clamp(b.Base + b.Magic.Bonus())
	return b
}

// HouseScore returns the clamped house-based score without the Magic Formula bonus.
func (a *Analyzer) HouseScore(chart *model.Chart, priorities []model.Priority) float64 {
	return Clamp(a.houseRaw(chart, priorities))
}

func (a *Analyzer) houseRaw(chart *model.Chart, priorities []model.Priority) float64 {
	return a.placementTerms(chart, priorities) +
		a.aspectTerms(chart, priorities, houseAspectImportance) +
		a.comboTerms(chart, priorities)
}

func (a *Analyzer) placementTerms(chart *model.Chart, priorities []model.Priority) float64 {
	total := 0.0
	for _, id := range priorities {
		criteria, ok := a.rules.Criteria.Lookup(id)
		if !ok {
			continue
		}
		for _, pos := range chart.Planets {
			if !criteria.IsFavorablePlanet(pos.Name) || !criteria.IsFavorableHouse(pos.House) {
				continue
			}
			dignity := astro.DignityOf(pos.Name, pos.Sign).Multiplier()
			total += criteria.PlanetWeight(pos.Name) * criteria.HouseWeight(pos.House) * dignity
		}
	}
	return total
}

func (a *Analyzer) aspectTerms(chart *model.Chart, priorities []model.Priority, importance float64) float64 {
	total := 0.0
	for _, id := range priorities {
		criteria, ok := a.rules.Criteria.Lookup(id)
		if !ok {
			continue
		}
		for _, asp := range chart.Aspects {
			fav1 := criteria.IsFavorablePlanet(asp.Planet1)
			fav2 := criteria.IsFavorablePlanet(asp.Planet2)
			avg := (astro.DignityMultiplier(chart, asp.Planet1) + astro.DignityMultiplier(chart, asp.Planet2)) / 2

			switch {
			case criteria.IsFavorableAspect(asp.Kind) && fav1 && fav2:
				w := criteria.PlanetWeight(asp.Planet1) + criteria.PlanetWeight(asp.Planet2)
				total += w * favorableAspectScale * avg * importance
			case criteria.IsChallengingAspect(asp.Kind) &&
				(fav1 || fav2 || asp.Planet1.IsMalefic() || asp.Planet2.IsMalefic()):
				base := oneRelevantPenalty
				if fav1 && fav2 {
					base = bothRelevantPenalty
				}
				total -= base * challengingScale * afflictionFactor(avg)
			}
		}
	}
	return total
}

func (a *Analyzer) comboTerms(chart *model.Chart, priorities []model.Priority) float64 {
	total := 0.0
	for _, id := range priorities {
		criteria, ok := a.rules.Criteria.Lookup(id)
		if !ok {
			continue
		}
		for _, combo := range criteria.Combos {
			if !combo.Matches(chart) {
				continue
			}
			avg := 0.0
			for _, p := range combo.Planets {
				avg += astro.DignityMultiplier(chart, p)
			}
			avg /= float64(len(combo.Planets))
			if combo.IsChallenging() {
				total += combo.Bonus * afflictionFactor(avg)
			} else {
				total += combo.Bonus * avg
			}
		}
	}
	return total
}

// electional applies prohibitions, the moon phase and the dignity bonuses, in that order.
func (a *Analyzer) electional(chart *model.Chart, priorities []model.Priority, date time.Time, b *Breakdown) {
	score := Clamp(a.houseRaw(chart, priorities))

	b.Prohibitions = rules.FiringProhibitions(a.rules.Prohibitions, chart, date)
	for _, p := range b.Prohibitions {
		score *= p.Multiplier
	}

	if phase, ok := astro.MoonPhaseOf(chart); ok {
		b.MoonPhase = phase
		b.MoonMultiplier = a.rules.MoonMultiplier(phase)
		score *= b.MoonMultiplier
	}

	bonuses := a.rules.Bonuses
	if astro.MercuryStatusOf(chart) == model.MercuryDirect {
		score *= bonuses.MercuryDirect
		b.Bonuses = append(b.Bonuses, "mercury_direct")
	}
	if dignified(chart, model.Jupiter) {
		score *= bonuses.DignifiedJupiter
		b.Bonuses = append(b.Bonuses, "jupiter_dignified")
	}
	if dignified(chart, model.Venus) {
		score *= bonuses.DignifiedVenus
		b.Bonuses = append(b.Bonuses, "venus_dignified")
	}

	b.Base = Clamp(score)
}

func dignified(chart *model.Chart, p model.Planet) bool {
	pos, ok := chart.Planet(p)
	return ok && astro.DignityOf(p, pos.Sign).IsDignified()
}

// afflictionFactor scales penalties so a dignified planet suffers less and a
// debilitated one more. It is the inverse of the average dignity so that
// raising any planet's dignity never lowers a score.
func afflictionFactor(avgDignity float64) float64 {
	if avgDignity <= 0 {
		return 1.0
	}
	return 1.0 / avgDignity
}

// Clamp bounds a score to [MinScore, MaxScore].
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, score))
}

// MatchingCombo returns the first combo, across priorities in order, whose
// planets all occupy its house.
func (a *Analyzer) MatchingCombo(chart *model.Chart, priorities []model.Priority) (rules.Combo, bool) {
	for _, id := range priorities {
		criteria, ok := a.rules.Criteria.Lookup(id)
		if !ok {
			continue
		}
		for _, combo := range criteria.Combos {
			if combo.Matches(chart) {
				return combo, true
			}
		}
	}
	return rules.Combo{}, false
}

// RelevantAspects returns up to n aspects touching a favorable planet of any
// priority, tightest first.
func (a *Analyzer) RelevantAspects(chart *model.Chart, priorities []model.Priority, n int) []model.ChartAspect {
	var relevant []model.ChartAspect
	for _, asp := range chart.Aspects {
		for _, id := range priorities {
			criteria, ok := a.rules.Criteria.Lookup(id)
			if !ok {
				continue
			}
			if criteria.IsFavorablePlanet(asp.Planet1) || criteria.IsFavorablePlanet(asp.Planet2) {
				relevant = append(relevant, asp)
				break
			}
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Orb < relevant[j].Orb
	})
	if len(relevant) > n {
		relevant = relevant[:n]
	}
	return relevant
}
