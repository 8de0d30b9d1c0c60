package engine

import (
	"testing"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/Veraticus/the-stars-must-align/internal/testutil"
	"github.com/Veraticus/the-stars-must-align/internal/title"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterializer() *Materializer {
	set := rules.Default()
	return NewMaterializer(title.New(set.Criteria), set.Prohibitions)
}

func TestEventTypeFor(t *testing.T) {
	tests := []struct {
		want  model.EventType
		score float64
	}{
		{model.EventBenefic, 9},
		{model.EventBenefic, 4.5},
		{model.EventNeutral, 4.49},
		{model.EventNeutral, 2.5},
		{model.EventChallenging, 2.49},
		{model.EventChallenging, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EventTypeFor(tt.score), "score %.2f", tt.score)
	}
}

func TestMaterializeEvent(t *testing.T) {
	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	chart := testutil.NewChart(at).
		Planet(model.Sun, 5, 10).
		Planet(model.Moon, 70, 11).
		Planet(model.Mercury, 20, 10).
		Planet(model.Jupiter, 100, 1).
		Planet(model.Mars, 190, 7).
		Planet(model.Saturn, 280, 4).
		Aspect(model.Mars, model.Saturn, model.Square, 1).
		Aspect(model.Sun, model.Moon, model.Sextile, 9).
		Build()

	result := model.TimingResult{
		Moment:      at,
		Chart:       chart,
		Score:       6.4567,
		Method:      model.MethodElectional,
		Description: "Supportive house placements",
		Priorities:  []model.Priority{model.Career},
	}

	events := newTestMaterializer().Materialize([]model.TimingResult{result})
	require.Len(t, events, 1)
	ev := events[0]

	assert.NotEmpty(t, ev.Title)
	assert.Equal(t, "2025-03-14", ev.Date)
	assert.Equal(t, "10:00", ev.Time)
	assert.Equal(t, model.EventBenefic, ev.Type)
	assert.InDelta(t, 6.46, ev.Score, 1e-9)

	require.NotNil(t, ev.Window)
	assert.Equal(t, at, ev.Window.Start)
	assert.Equal(t, at.Add(time.Hour), ev.Window.End)
	assert.Equal(t, "1 hour", ev.Window.Duration)

	assert.Len(t, ev.Aspects, 1)
	assert.Len(t, ev.Planets, 6)
	assert.Contains(t, ev.Planets, "Jupiter in Cancer 10.0°, 1st house")
	assert.Equal(t, "real estate & food", ev.JupiterSector)
	assert.Equal(t, "government & infrastructure", ev.SaturnSector)
	assert.Equal(t, "peak", ev.EconomicPhase)

	el := ev.Electional
	assert.Equal(t, model.MercuryDirect, el.MercuryStatus)
	assert.Equal(t, model.WaxingCrescent, el.MoonPhase)
	assert.True(t, el.BeneficsAngular)
	assert.Len(t, el.MaleficAspects, 1)
	assert.Equal(t, []string{"Sun (exaltation)", "Jupiter (exaltation)", "Saturn (rulership)"}, el.DignifiedPlanets)
	assert.Equal(t, []string{"malefic_debility"}, el.Prohibitions)
	assert.False(t, el.VoidOfCourse)
	assert.True(t, el.ElectionalReady)
}

func TestMaterializeElectionalReadyNeedsDirectMercury(t *testing.T) {
	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	chart := testutil.NewChart(at).
		Planet(model.Sun, 5, 10).
		Retrograde(model.Mercury, 40, 11).
		Build()

	events := newTestMaterializer().Materialize([]model.TimingResult{
		{Moment: at, Chart: chart, Score: 8, Method: model.MethodHouses},
		{Moment: at, Chart: testutil.NewChart(at).Planet(model.Mercury, 40, 11).Build(), Score: 5.9, Method: model.MethodHouses},
	})
	require.Len(t, events, 2)

	assert.Equal(t, model.MercuryRetrograde, events[0].Electional.MercuryStatus)
	assert.False(t, events[0].Electional.ElectionalReady)
	assert.Contains(t, events[0].Electional.Prohibitions, "mercury_retrograde")
	assert.Contains(t, events[0].Planets, "Mercury in Taurus 10.0°, 11th house (R)")

	assert.False(t, events[1].Electional.ElectionalReady)
}

func TestMaterializeWithoutChart(t *testing.T) {
	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	window := &model.TimeWindow{Start: at, End: at.Add(3 * time.Hour), Duration: "3 hours", Minutes: 180}

	events := newTestMaterializer().Materialize([]model.TimingResult{{
		Moment:     at,
		Window:     window,
		Score:      1.0,
		Method:     model.MethodAspects,
		Priorities: []model.Priority{model.Love},
	}})
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "Aspects Window for Love", ev.Title)
	assert.Equal(t, window, ev.Window)
	assert.Equal(t, model.EventChallenging, ev.Type)
	assert.Equal(t, model.MercuryUnknown, ev.Electional.MercuryStatus)
	assert.NotNil(t, ev.Aspects)
	assert.Empty(t, ev.Aspects)
}
