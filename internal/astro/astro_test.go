package astro

import (
	"testing"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignOf(t *testing.T) {
	tests := []struct {
		name      string
		longitude float64
		want      model.Sign
	}{
		{"start of aries", 0, model.Aries},
		{"late aries", 29.99, model.Aries},
		{"taurus", 30, model.Taurus},
		{"pisces", 359.5, model.Pisces},
		{"wraps past 360", 365, model.Aries},
		{"negative wraps", -10, model.Pisces},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignOf(tt.longitude))
		})
	}
}

func TestSignNavigation(t *testing.T) {
	assert.Equal(t, model.Taurus, NextSign(model.Aries))
	assert.Equal(t, model.Aries, NextSign(model.Pisces))
	assert.Equal(t, model.Pisces, PreviousSign(model.Aries))
	assert.Equal(t, model.Libra, OppositeSign(model.Aries))
	assert.Equal(t, model.Cancer, OppositeSign(model.Capricorn))
	assert.Equal(t, model.Sign(""), OppositeSign("ophiuchus"))
}

func TestSeparation(t *testing.T) {
	assert.InDelta(t, 20.0, Separation(350, 10), 1e-9)
	assert.InDelta(t, 180.0, Separation(0, 180), 1e-9)
	assert.InDelta(t, 90.0, Separation(45, 315), 1e-9)
}

func TestHouseFromAscendant(t *testing.T) {
	assert.Equal(t, 1, HouseFromAscendant(100, 100))
	assert.Equal(t, 2, HouseFromAscendant(135, 100))
	assert.Equal(t, 12, HouseFromAscendant(99, 100))
	assert.Equal(t, 7, HouseFromAscendant(280, 100))
}

func TestOrdinal(t *testing.T) {
	for n, want := range map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th"} {
		assert.Equal(t, want, Ordinal(n))
	}
}

func TestClassifyAspect(t *testing.T) {
	tests := []struct {
		name     string
		lon1     float64
		lon2     float64
		wantKind model.AspectKind
		wantOrb  float64
		wantOK   bool
	}{
		{"exact trine", 10, 130, model.Trine, 0, true},
		{"wide conjunction", 10, 17.5, model.Conjunction, 7.5, true},
		{"square within 7", 0, 96, model.Square, 6, true},
		{"square beyond 7", 0, 98, "", 0, false},
		{"sextile across 0", 350, 50, model.Sextile, 0, true},
		{"quincunx tight", 0, 152, model.Quincunx, 2, true},
		{"opposition", 0, 185, model.Opposition, 5, true},
		{"nothing", 0, 40, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, orb, ok := ClassifyAspect(tt.lon1, tt.lon2)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
			assert.InDelta(t, tt.wantOrb, orb, 1e-9)
		})
	}
}

func TestComputeAspects(t *testing.T) {
	planets := []model.PlanetPosition{
		{Name: model.Sun, Longitude: 10, DailyMotion: 1},
		{Name: model.Jupiter, Longitude: 132, DailyMotion: 0.1},
		{Name: model.Saturn, Longitude: 200, DailyMotion: 0.05},
	}

	aspects := ComputeAspects(planets)
	require.Len(t, aspects, 1)

	a := aspects[0]
	assert.Equal(t, model.Sun, a.Planet1)
	assert.Equal(t, model.Jupiter, a.Planet2)
	assert.Equal(t, model.Trine, a.Kind)
	assert.InDelta(t, 2.0, a.Orb, 1e-9)
	assert.True(t, a.Applying)
}

func TestDignityOf(t *testing.T) {
	tests := []struct {
		planet model.Planet
		sign   model.Sign
		want   model.Dignity
	}{
		{model.Jupiter, model.Sagittarius, model.Rulership},
		{model.Jupiter, model.Cancer, model.Exaltation},
		{model.Jupiter, model.Gemini, model.Detriment},
		{model.Jupiter, model.Capricorn, model.Fall},
		{model.Jupiter, model.Aries, model.Neutral},
		{model.Venus, model.Pisces, model.Exaltation},
		{model.Venus, model.Virgo, model.Fall},
		{model.Mars, model.Cancer, model.Fall},
		{model.Saturn, model.Aries, model.Fall},
		{model.Saturn, model.Leo, model.Detriment},
		{model.NorthNode, model.Leo, model.Neutral},
	}

	for _, tt := range tests {
		t.Run(string(tt.planet)+"_"+string(tt.sign), func(t *testing.T) {
			assert.Equal(t, tt.want, DignityOf(tt.planet, tt.sign))
		})
	}
}

func TestDignityMultiplierMissingPlanet(t *testing.T) {
	chart := &model.Chart{Planets: []model.PlanetPosition{{Name: model.Sun, Sign: model.Leo}}}
	assert.InDelta(t, 1.5, DignityMultiplier(chart, model.Sun), 1e-9)
	assert.InDelta(t, 1.0, DignityMultiplier(chart, model.Jupiter), 1e-9)
}

func TestPhaseForElongation(t *testing.T) {
	tests := []struct {
		elongation float64
		want       model.MoonPhase
	}{
		{0, model.NewMoon},
		{350, model.NewMoon},
		{30, model.WaxingCrescent},
		{90, model.FirstQuarter},
		{140, model.WaxingGibbous},
		{180, model.FullMoon},
		{200, model.FullMoon},
		{225, model.WaningGibbous},
		{270, model.LastQuarter},
		{320, model.WaningCrescent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseForElongation(tt.elongation), "elongation %.0f", tt.elongation)
	}
}

func TestMercuryConditions(t *testing.T) {
	chart := &model.Chart{Planets: []model.PlanetPosition{
		{Name: model.Sun, Longitude: 100},
		{Name: model.Mercury, Longitude: 105, DailyMotion: -0.4},
	}}

	assert.True(t, IsRetrograde(chart, model.Mercury))
	assert.Equal(t, model.MercuryRetrograde, MercuryStatusOf(chart))
	assert.True(t, IsCombust(chart, model.Mercury))
	assert.False(t, IsCombust(chart, model.Sun))

	chart.Planets[1].DailyMotion = 1.2
	chart.Planets[1].Longitude = 130
	assert.Equal(t, model.MercuryDirect, MercuryStatusOf(chart))
	assert.False(t, IsCombust(chart, model.Mercury))

	assert.Equal(t, model.MercuryUnknown, MercuryStatusOf(&model.Chart{}))
}

func TestWindows(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	w, ok := SpanWindow([]time.Time{start.Add(2 * time.Hour), start, start.Add(time.Hour)})
	require.True(t, ok)
	assert.Equal(t, start, w.Start)
	assert.Equal(t, start.Add(3*time.Hour), w.End)
	assert.Equal(t, "3 hours", w.Duration)
	assert.Equal(t, 180, w.Minutes)

	_, ok = SpanWindow(nil)
	assert.False(t, ok)

	assert.Equal(t, "1 hour", FormatDuration(60))
	assert.Equal(t, "1 hour", FormatDuration(90))
	assert.Equal(t, "45 minutes", FormatDuration(45))
	assert.Equal(t, "1 minute", FormatDuration(1))
}
