package engine

import (
	"fmt"
	"math"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/patterns"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/Veraticus/the-stars-must-align/internal/title"
)

// Event type thresholds.
const (
	BeneficScore         = 4.5
	NeutralScore         = 2.5
	ElectionalReadyScore = 6.0
	maxListedOrb         = 8.0
)

// Materializer converts scored results into user-facing events.
type Materializer struct {
	titles       *title.Generator
	prohibitions []rules.Prohibition
}

// NewMaterializer creates a materializer.
func NewMaterializer(titles *title.Generator, prohibitions []rules.Prohibition) *Materializer {
	return &Materializer{titles: titles, prohibitions: prohibitions}
}

// Materialize builds one event per result, in order.
func (m *Materializer) Materialize(results []model.TimingResult) []model.Event {
	events := make([]model.Event, 0, len(results))
	for i, r := range results {
		events = append(events, m.event(r, i))
	}
	return events
}

func (m *Materializer) event(r model.TimingResult, index int) model.Event {
	chart := r.Chart
	window := r.Window
	if window == nil {
		w := astro.NewWindow(r.Moment, r.Moment.Add(astro.SlotLength))
		window = &w
	}

	ev := model.Event{
		Title:         m.titles.Title(chart, r.Priorities, r.Method, index),
		Description:   r.Description,
		Date:          r.Date(),
		Time:          r.Clock(),
		Type:          EventTypeFor(r.Score),
		Method:        r.Method,
		MagicFormula:  r.MagicFormula,
		Priorities:    r.Priorities,
		Score:         math.Round(r.Score*100) / 100,
		Window:        window,
		Aspects:       []string{},
		Planets:       []string{},
		JupiterSector: patterns.JupiterSector(chart),
		SaturnSector:  patterns.SaturnRestriction(chart),
		EconomicPhase: patterns.EconomicPhase(chart),
		Ingresses:     patterns.IngressWindows(chart),
	}
	if chart == nil {
		ev.Electional = model.Electional{MercuryStatus: model.MercuryUnknown}
		return ev
	}

	for _, a := range chart.Aspects {
		if a.Orb <= maxListedOrb {
			ev.Aspects = append(ev.Aspects, a.String())
		}
	}
	for _, p := range chart.Planets {
		ev.Planets = append(ev.Planets, planetSummary(p))
	}
	ev.Electional = m.electional(chart, r)
	return ev
}

func (m *Materializer) electional(chart *model.Chart, r model.TimingResult) model.Electional {
	el := model.Electional{
		MercuryStatus:    astro.MercuryStatusOf(chart),
		MaleficAspects:   []string{},
		DignifiedPlanets: []string{},
		Prohibitions:     []string{},
		VoidOfCourse:     patterns.IsVoidOfCourse(chart),
	}
	if phase, ok := astro.MoonPhaseOf(chart); ok {
		el.MoonPhase = phase
	}

	for _, p := range chart.Planets {
		if p.Name.IsBenefic() && astro.IsAngular(p.House) {
			el.BeneficsAngular = true
		}
		if d := astro.DignityOf(p.Name, p.Sign); d.IsDignified() {
			el.DignifiedPlanets = append(el.DignifiedPlanets, fmt.Sprintf("%s (%s)", p.Name.Display(), d))
		}
	}
	for _, a := range chart.Aspects {
		if (a.Planet1.IsMalefic() || a.Planet2.IsMalefic()) && astro.IsHard(a.Kind) {
			el.MaleficAspects = append(el.MaleficAspects, a.String())
		}
	}
	for _, p := range rules.FiringProhibitions(m.prohibitions, chart, r.Moment) {
		el.Prohibitions = append(el.Prohibitions, p.ID)
	}

	el.ElectionalReady = r.Score >= ElectionalReadyScore && el.MercuryStatus == model.MercuryDirect
	return el
}

// EventTypeFor classifies a score.
func EventTypeFor(score float64) model.EventType {
	switch {
	case score >= BeneficScore:
		return model.EventBenefic
	case score >= NeutralScore:
		return model.EventNeutral
	default:
		return model.EventChallenging
	}
}

func planetSummary(p model.PlanetPosition) string {
	s := fmt.Sprintf("%s in %s %.1f°, %s house", p.Name.Display(), p.Sign.Display(), p.DegreeInSign(), astro.Ordinal(p.House))
	if p.Retrograde || p.DailyMotion < 0 {
		s += " (R)"
	}
	return s
}
