// Package title turns a scored chart into a short human-readable label.
//
// Titles are deterministic: the same chart, priorities, method and index
// always produce the same text. Variety between charts comes from VarietySeed,
// a pure function of planetary longitudes.
package title

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
)

// WarningGlyph prefixes titles built from challenging combos.
const WarningGlyph = "⚠️"

const significantComboBonus = 1.0

// Generator builds titles from a criteria table.
type Generator struct {
	criteria rules.CriteriaTable
}

// New creates a title generator.
func New(criteria rules.CriteriaTable) *Generator {
	return &Generator{criteria: criteria}
}

type placement struct {
	priority model.Priority
	planet   model.PlanetPosition
}

// Title labels a chart. The index is the event's position in its list and
// drives the money house alternation.
func (g *Generator) Title(chart *model.Chart, priorities []model.Priority, method model.Method, index int) string {
	if chart == nil {
		return fallback(priorities, method)
	}

	if combo, ok := g.significantCombo(chart, priorities); ok {
		if combo.IsChallenging() {
			return fmt.Sprintf("%s %s (%s)", WarningGlyph, combo.Name, combo.Description)
		}
		return fmt.Sprintf("%s (%s)", combo.Name, combo.Description)
	}

	if candidates := g.placements(chart, priorities, index); len(candidates) > 0 {
		pick := candidates[VarietySeed(chart)%len(candidates)]
		label := fmt.Sprintf("%s in the %s House for %s",
			PlanetLabel(pick.planet), astro.Ordinal(pick.planet.House), pick.priority.Display())
		return label + contextSuffix(chart, method)
	}

	if asp, ok := g.tightestRelevantAspect(chart, priorities); ok {
		return fmt.Sprintf("%s %s %s%s", asp.Planet1.Display(), titleCase(string(asp.Kind)), asp.Planet2.Display(), contextSuffix(chart, method))
	}

	return fallback(priorities, method)
}

// significantCombo prefers a matching challenging combo, then a favorable one.
func (g *Generator) significantCombo(chart *model.Chart, priorities []model.Priority) (rules.Combo, bool) {
	var favorable *rules.Combo
	for _, id := range priorities {
		criteria, ok := g.criteria.Lookup(id)
		if !ok {
			continue
		}
		for i := range criteria.Combos {
			combo := criteria.Combos[i]
			if math.Abs(combo.Bonus) < significantComboBonus || !combo.Matches(chart) {
				continue
			}
			if combo.IsChallenging() {
				return combo, true
			}
			if favorable == nil {
				favorable = &combo
			}
		}
	}
	if favorable != nil {
		return *favorable, true
	}
	return rules.Combo{}, false
}

func (g *Generator) placements(chart *model.Chart, priorities []model.Priority, index int) []placement {
	var out []placement
	seen := make(map[model.Planet]bool)
	for _, id := range priorities {
		criteria, ok := g.criteria.Lookup(id)
		if !ok {
			continue
		}
		var found []placement
		for _, pos := range chart.Planets {
			if seen[pos.Name] || !criteria.IsFavorablePlanet(pos.Name) || !criteria.IsFavorableHouse(pos.House) {
				continue
			}
			found = append(found, placement{priority: id, planet: pos})
		}
		if id == model.Money {
			found = alternateMoneyHouses(found, index)
		}
		for _, p := range found {
			seen[p.planet.Name] = true
			out = append(out, p)
		}
	}
	return out
}

// alternateMoneyHouses keeps 2nd-house placements for even indexes and
// 8th-house placements for odd ones when both are available.
func alternateMoneyHouses(found []placement, index int) []placement {
	var second, eighth, other []placement
	for _, p := range found {
		switch p.planet.House {
		case 2:
			second = append(second, p)
		case 8:
			eighth = append(eighth, p)
		default:
			other = append(other, p)
		}
	}
	if len(second) == 0 || len(eighth) == 0 {
		return found
	}
	if index%2 == 0 {
		return append(second, other...)
	}
	return append(eighth, other...)
}

func (g *Generator) tightestRelevantAspect(chart *model.Chart, priorities []model.Priority) (model.ChartAspect, bool) {
	var (
		best  model.ChartAspect
		found bool
	)
	for _, asp := range chart.Aspects {
		relevant := false
		for _, id := range priorities {
			if criteria, ok := g.criteria.Lookup(id); ok &&
				(criteria.IsFavorablePlanet(asp.Planet1) || criteria.IsFavorablePlanet(asp.Planet2)) {
				relevant = true
				break
			}
		}
		if relevant && (!found || asp.Orb < best.Orb) {
			best = asp
			found = true
		}
	}
	return best, found
}

// PlanetLabel renders a planet with retrograde and dignity markers, e.g. "Jupiter (R) (Exalted)".
func PlanetLabel(pos model.PlanetPosition) string {
	label := pos.Name.Display()
	if pos.Retrograde || pos.DailyMotion < 0 {
		label += " (R)"
	}
	switch astro.DignityOf(pos.Name, pos.Sign) {
	case model.Rulership:
		label += " (Ruler)"
	case model.Exaltation:
		label += " (Exalted)"
	case model.Detriment:
		label += " (Detriment)"
	case model.Fall:
		label += " (Fall)"
	case model.Neutral:
	}
	return label
}

func contextSuffix(chart *model.Chart, method model.Method) string {
	if method == model.MethodElectional && astro.MercuryStatusOf(chart) == model.MercuryRetrograde {
		return " · Mercury Rx"
	}
	if phase, ok := astro.MoonPhaseOf(chart); ok {
		return fmt.Sprintf(" · %s", phase.Display())
	}
	return ""
}

func fallback(priorities []model.Priority, method model.Method) string {
	names := make([]string, 0, len(priorities))
	for _, p := range priorities {
		names = append(names, p.Display())
	}
	subject := strings.Join(names, " & ")
	if subject == "" {
		subject = "General"
	}
	return fmt.Sprintf("%s Window for %s", titleCase(string(method)), subject)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// VarietySeed derives a stable non-negative integer from a chart's longitudes,
// weighting each planet by its position in the list.
func VarietySeed(chart *model.Chart) int {
	if chart == nil {
		return 0
	}
	sum := 0.0
	for i, p := range chart.Planets {
		sum += p.Longitude * float64(i+1)
	}
	seed := int(math.Floor(math.Abs(sum)))
	if seed < 0 {
		return 0
	}
	return seed
}
