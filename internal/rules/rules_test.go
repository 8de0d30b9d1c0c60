package rules

import (
	"testing"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func TestDefaultSetValidates(t *testing.T) {
	set := Default()
	require.NoError(t, set.Validate())

	for _, p := range model.AllPriorities {
		_, ok := set.Criteria.Lookup(p)
		assert.True(t, ok, "missing criteria for %s", p)
	}
}

func TestSetValidateRejects(t *testing.T) {
	check := func(*model.Chart, time.Time) bool { return true }

	tests := []struct {
		mutate func(*Set)
		name   string
	}{
		{
			name: "prohibition multiplier above one",
			mutate: func(s *Set) {
				s.Prohibitions = append(s.Prohibitions, Prohibition{ID: "x", Multiplier: 1.5, Check: check})
			},
		},
		{
			name: "zero prohibition multiplier",
			mutate: func(s *Set) {
				s.Prohibitions = []Prohibition{{ID: "x", Multiplier: 0, Check: check}}
			},
		},
		{
			name: "duplicate prohibition",
			mutate: func(s *Set) {
				s.Prohibitions = append(s.Prohibitions, s.Prohibitions[0])
			},
		},
		{
			name: "prohibition without check",
			mutate: func(s *Set) {
				s.Prohibitions = []Prohibition{{ID: "x", Multiplier: 0.5}}
			},
		},
		{
			name: "house out of range",
			mutate: func(s *Set) {
				c := s.Criteria[model.Career]
				c.Houses = []int{13}
				s.Criteria[model.Career] = c
			},
		},
		{
			name: "negative weight",
			mutate: func(s *Set) {
				c := s.Criteria[model.Love]
				c.Weights = map[string]float64{"venus": -1}
				s.Criteria[model.Love] = c
			},
		},
		{
			name: "non-positive moon multiplier",
			mutate: func(s *Set) {
				s.MoonPhases[model.FullMoon] = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Default()
			tt.mutate(&set)
			assert.ErrorIs(t, set.Validate(), ErrInvalidRules)
		})
	}
}

func TestMoonMultiplier(t *testing.T) {
	set := Default()
	assert.InDelta(t, 1.4, set.MoonMultiplier(model.WaxingCrescent), 1e-9)
	assert.InDelta(t, 0.6, set.MoonMultiplier(model.FullMoon), 1e-9)

	set.MoonPhases = map[model.MoonPhase]float64{}
	assert.InDelta(t, 1.0, set.MoonMultiplier(model.FullMoon), 1e-9)
}

func TestCriteriaWeights(t *testing.T) {
	c := DefaultCriteria()[model.Career]
	assert.InDelta(t, 2.5, c.HouseWeight(10), 1e-9)
	assert.InDelta(t, 2.0, c.PlanetWeight(model.Sun), 1e-9)
	assert.InDelta(t, 1.0, c.PlanetWeight(model.Neptune), 1e-9)
	assert.InDelta(t, 1.0, c.HouseWeight(12), 1e-9)
	assert.True(t, c.IsFavorableAspect(model.Trine))
	assert.True(t, c.IsChallengingAspect(model.Square))
	assert.False(t, c.IsChallengingAspect(model.Quincunx))
}

func TestComboMatches(t *testing.T) {
	combo := Combo{Planets: []model.Planet{model.Sun, model.Jupiter}, House: 10, Bonus: 3}

	both := testutil.NewChart(noon).Planet(model.Sun, 280, 10).Planet(model.Jupiter, 285, 10).Build()
	split := testutil.NewChart(noon).Planet(model.Sun, 280, 10).Planet(model.Jupiter, 310, 11).Build()
	missing := testutil.NewChart(noon).Planet(model.Sun, 280, 10).Build()

	assert.True(t, combo.Matches(both))
	assert.False(t, combo.Matches(split))
	assert.False(t, combo.Matches(missing))
	assert.False(t, Combo{House: 10}.Matches(both))

	assert.False(t, combo.IsChallenging())
	assert.True(t, Combo{Bonus: -1}.IsChallenging())
}

func TestFiringProhibitions(t *testing.T) {
	tests := []struct {
		chart *model.Chart
		name  string
		want  []string
	}{
		{
			name: "clean chart",
			chart: testutil.NewChart(noon).
				Planet(model.Sun, 5, 1).
				Planet(model.Moon, 50, 2).
				Planet(model.Mercury, 30, 1).
				Planet(model.Mars, 10, 1).
				Planet(model.Saturn, 300, 10).
				Build(),
		},
		{
			name: "mercury retrograde and combust",
			chart: testutil.NewChart(noon).
				Planet(model.Sun, 5, 1).
				Retrograde(model.Mercury, 8, 1).
				Build(),
			want: []string{"mercury_retrograde", "mercury_combust"},
		},
		{
			name: "full moon with mars opposite saturn",
			chart: testutil.NewChart(noon).
				Planet(model.Sun, 5, 1).
				Planet(model.Moon, 185, 7).
				Planet(model.Mars, 10, 1).
				Planet(model.Saturn, 190, 7).
				Aspect(model.Mars, model.Saturn, model.Opposition, 0).
				Build(),
			want: []string{"mars_saturn_opposition", "full_moon_launch"},
		},
		{
			name: "mars in fall",
			chart: testutil.NewChart(noon).
				Planet(model.Mars, 100, 4).
				Build(),
			want: []string{"malefic_debility"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := FiringProhibitions(DefaultProhibitions(), tt.chart, noon)
			ids := make([]string, 0, len(fired))
			for _, p := range fired {
				ids = append(ids, p.ID)
			}
			if len(tt.want) == 0 {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestProhibitionAtOneNeverFires(t *testing.T) {
	p := Prohibition{ID: "noop", Multiplier: 1.0, Check: func(*model.Chart, time.Time) bool { return true }}
	assert.False(t, p.Fires(&model.Chart{}, noon))
	assert.NoError(t, ValidateProhibitions([]Prohibition{p}))
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	assert.InDelta(t, 0.2, th.For(model.MethodAspects), 1e-9)
	assert.InDelta(t, 0.3, th.For(model.MethodHouses), 1e-9)
	assert.InDelta(t, 0.3, th.For(model.MethodElectional), 1e-9)
}
