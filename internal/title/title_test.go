package title

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/Veraticus/the-stars-must-align/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var at = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newGenerator() *Generator {
	return New(rules.DefaultCriteria())
}

func TestTitleCombos(t *testing.T) {
	g := newGenerator()
	career := []model.Priority{model.Career}

	favorable := testutil.NewChart(at).
		Planet(model.Sun, 280, 10).
		Planet(model.Jupiter, 285, 10).
		Build()
	assert.Equal(t, "Sun & Jupiter in the 10th (Recognition and promotion)",
		g.Title(favorable, career, model.MethodHouses, 0))

	mixed := testutil.NewChart(at).
		Planet(model.Sun, 280, 10).
		Planet(model.Jupiter, 285, 10).
		Planet(model.Saturn, 290, 10).
		Planet(model.Mars, 295, 10).
		Build()
	got := g.Title(mixed, career, model.MethodHouses, 0)
	assert.True(t, strings.HasPrefix(got, WarningGlyph), got)
	assert.Equal(t, WarningGlyph+" Saturn & Mars in the 10th (Friction with authority)", got)
}

func TestTitleMoneyHouseAlternation(t *testing.T) {
	g := newGenerator()
	money := []model.Priority{model.Money}

	chart := testutil.NewChart(at).
		Planet(model.Venus, 65, 2).
		Planet(model.Jupiter, 130, 8).
		Build()

	assert.Equal(t, "Venus in the 2nd House for Money", g.Title(chart, money, model.MethodHouses, 0))
	assert.Equal(t, "Jupiter in the 8th House for Money", g.Title(chart, money, model.MethodHouses, 1))
	assert.Equal(t, "Venus in the 2nd House for Money", g.Title(chart, money, model.MethodHouses, 2))
}

func TestTitleIsDeterministic(t *testing.T) {
	g := newGenerator()
	chart := testutil.QuietChart(at)
	priorities := []model.Priority{model.Love, model.Home}

	first := g.Title(chart, priorities, model.MethodAspects, 3)
	for range 5 {
		assert.Equal(t, first, g.Title(chart, priorities, model.MethodAspects, 3))
	}
	assert.NotEmpty(t, first)
}

func TestTitleSuffixes(t *testing.T) {
	g := newGenerator()
	chart := testutil.NewChart(at).
		Planet(model.Sun, 5, 9).
		Planet(model.Moon, 185, 4).
		Retrograde(model.Mercury, 20, 3).
		Build()
	comm := []model.Priority{model.Communication}

	assert.Equal(t, "Mercury (R) in the 3rd House for Communication · Mercury Rx",
		g.Title(chart, comm, model.MethodElectional, 0))
	assert.Equal(t, "Mercury (R) in the 3rd House for Communication · Full Moon",
		g.Title(chart, comm, model.MethodHouses, 0))
}

func TestTitleFallsBackToAspect(t *testing.T) {
	g := newGenerator()
	chart := testutil.NewChart(at).
		Planet(model.Venus, 65, 12).
		Planet(model.Saturn, 185, 4).
		Aspect(model.Venus, model.Saturn, model.Trine, 0).
		Build()

	assert.Equal(t, "Venus Trine Saturn", g.Title(chart, []model.Priority{model.Love}, model.MethodAspects, 0))
}

func TestTitleFallback(t *testing.T) {
	g := newGenerator()

	assert.Equal(t, "Houses Window for Career & Love",
		g.Title(nil, []model.Priority{model.Career, model.Love}, model.MethodHouses, 0))
	assert.Equal(t, "Electional Window for General", g.Title(nil, nil, model.MethodElectional, 0))

	empty := testutil.NewChart(at).Planet(model.Neptune, 10, 1).Build()
	assert.Equal(t, "Aspects Window for Travel", g.Title(empty, []model.Priority{model.Travel}, model.MethodAspects, 0))
}

func TestPlanetLabel(t *testing.T) {
	tests := []struct {
		want string
		pos  model.PlanetPosition
	}{
		{"Jupiter (R) (Exalted)", model.PlanetPosition{Name: model.Jupiter, Sign: model.Cancer, Retrograde: true}},
		{"Venus (Ruler)", model.PlanetPosition{Name: model.Venus, Sign: model.Libra, DailyMotion: 1}},
		{"Mars (Fall)", model.PlanetPosition{Name: model.Mars, Sign: model.Cancer, DailyMotion: 0.5}},
		{"Saturn (R) (Detriment)", model.PlanetPosition{Name: model.Saturn, Sign: model.Cancer, DailyMotion: -0.02}},
		{"Sun", model.PlanetPosition{Name: model.Sun, Sign: model.Gemini, DailyMotion: 1}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PlanetLabel(tt.pos))
	}
}

func TestVarietySeed(t *testing.T) {
	chart := testutil.NewChart(at).Planet(model.Sun, 10, 1).Planet(model.Moon, 20.5, 2).Build()
	assert.Equal(t, 51, VarietySeed(chart))
	assert.Equal(t, 0, VarietySeed(nil))
}
