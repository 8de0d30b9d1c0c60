package testutil

import (
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// ChartBuilder assembles charts for tests. Signs are derived from
// longitudes; houses must be given explicitly.
type ChartBuilder struct {
	chart         model.Chart
	deriveAspects bool
}

// NewChart starts a chart at the given moment.
func NewChart(at time.Time) *ChartBuilder {
	return &ChartBuilder{chart: model.Chart{Time: at}}
}

// Planet adds a direct-moving planet.
func (b *ChartBuilder) Planet(name model.Planet, longitude float64, house int) *ChartBuilder {
	return b.add(name, longitude, house, defaultMotion(name))
}

// Retrograde adds a planet moving backwards.
func (b *ChartBuilder) Retrograde(name model.Planet, longitude float64, house int) *ChartBuilder {
	b.add(name, longitude, house, -0.1)
	b.chart.Planets[len(b.chart.Planets)-1].Retrograde = true
	return b
}

func (b *ChartBuilder) add(name model.Planet, longitude float64, house int, motion float64) *ChartBuilder {
	lon := model.NormalizeDegrees(longitude)
	b.chart.Planets = append(b.chart.Planets, model.PlanetPosition{
		Name:        name,
		Sign:        astro.SignOf(lon),
		Longitude:   lon,
		DailyMotion: motion,
		House:       house,
	})
	return b
}

// Aspect adds an explicit aspect.
func (b *ChartBuilder) Aspect(p1, p2 model.Planet, kind model.AspectKind, orb float64) *ChartBuilder {
	b.chart.Aspects = append(b.chart.Aspects, model.ChartAspect{
		Planet1: p1,
		Planet2: p2,
		Kind:    kind,
		Orb:     orb,
	})
	return b
}

// DeriveAspects computes aspects from longitudes at Build time, replacing
// any added explicitly.
func (b *ChartBuilder) DeriveAspects() *ChartBuilder {
	b.deriveAspects = true
	return b
}

// Location sets the observer coordinates.
func (b *ChartBuilder) Location(latitude, longitude float64) *ChartBuilder {
	b.chart.Latitude = latitude
	b.chart.Longitude = longitude
	return b
}

// Build returns a copy of the chart.
func (b *ChartBuilder) Build() *model.Chart {
	chart := b.chart
	chart.Planets = append([]model.PlanetPosition(nil), b.chart.Planets...)
	if b.deriveAspects {
		chart.Aspects = astro.ComputeAspects(chart.Planets)
	} else {
		chart.Aspects = append([]model.ChartAspect(nil), b.chart.Aspects...)
	}
	return &chart
}

func defaultMotion(p model.Planet) float64 {
	switch p {
	case model.Moon:
		return 13.2
	case model.Sun, model.Mercury, model.Venus:
		return 1.0
	case model.Mars:
		return 0.5
	case model.NorthNode:
		return -0.05
	default:
		return 0.05
	}
}

// QuietChart is a chart with every core body and no aspects.
func QuietChart(at time.Time) *model.Chart {
	return NewChart(at).
		Planet(model.Sun, 5, 1).
		Planet(model.Moon, 47, 2).
		Planet(model.Mercury, 20, 1).
		Planet(model.Venus, 33, 2).
		Planet(model.Mars, 75, 3).
		Planet(model.Jupiter, 110, 4).
		Planet(model.Saturn, 162, 6).
		Planet(model.Uranus, 200, 7).
		Planet(model.Neptune, 257, 9).
		Planet(model.Pluto, 280, 10).
		Build()
}
