// Package ephemeris provides implementations of service.Ephemeris.
//
// Approximate is a built-in low precision oracle using circular mean orbits.
// It is accurate to a few degrees for the outer planets and good enough to
// exercise the scanner without a network dependency. HTTPClient talks to a
// remote position service and Cached memoizes any oracle.
package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
)

var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

type orbit struct {
	meanLongitude float64 // degrees at J2000
	dailyMotion   float64 // degrees per day
	semiMajorAxis float64 // AU
}

var (
	earthOrbit = orbit{100.4645, 0.9856091, 1.000001}

	heliocentric = map[model.Planet]orbit{
		model.Mercury: {252.2509, 4.0923344, 0.387098},
		model.Venus:   {181.9798, 1.6021302, 0.723330},
		model.Mars:    {355.4330, 0.5240207, 1.523688},
		model.Jupiter: {34.3515, 0.0830853, 5.202560},
		model.Saturn:  {50.0774, 0.0334443, 9.554750},
		model.Uranus:  {314.0550, 0.0117302, 19.181710},
		model.Neptune: {304.3487, 0.0059810, 30.058260},
		model.Pluto:   {238.9290, 0.0039600, 39.480000},
	}
)

// Approximate computes mean-orbit geocentric positions with equal houses.
type Approximate struct{}

// NewApproximate returns the built-in oracle.
func NewApproximate() *Approximate {
	return &Approximate{}
}

// Positions computes a chart for the instant and location.
func (a *Approximate) Positions(ctx context.Context, at time.Time, latitude, longitude float64) (*model.Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if at.IsZero() {
		return nil, fmt.Errorf("%w: zero timestamp", model.ErrInvalidChart)
	}

	d := daysSinceJ2000(at)
	asc := ascendant(d, latitude, longitude)

	bodies := append([]model.Planet{}, model.CoreBodies...)
	bodies = append(bodies, model.NorthNode)

	planets := make([]model.PlanetPosition, 0, len(bodies))
	for _, body := range bodies {
		lon := model.NormalizeDegrees(round4(geocentricLongitude(body, d)))
		motion := signedDelta(geocentricLongitude(body, d-0.5), geocentricLongitude(body, d+0.5))
		planets = append(planets, model.PlanetPosition{
			Name:        body,
			Longitude:   lon,
			Sign:        astro.SignOf(lon),
			House:       astro.HouseFromAscendant(lon, asc),
			Retrograde:  motion < 0,
			DailyMotion: round4(motion),
		})
	}

	chart := &model.Chart{
		Time:      at,
		Latitude:  latitude,
		Longitude: longitude,
		Ascendant: round4(asc),
		Planets:   planets,
		Aspects:   astro.ComputeAspects(planets),
	}
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	return chart, nil
}

func daysSinceJ2000(t time.Time) float64 {
	return float64(t.UTC().Sub(j2000)) / float64(24*time.Hour)
}

func geocentricLongitude(body model.Planet, d float64) float64 {
	switch body {
	case model.Sun:
		return model.NormalizeDegrees(earthOrbit.meanLongitude + earthOrbit.dailyMotion*d + 180)
	case model.Moon:
		meanLon := 218.316 + 13.176396*d
		meanAnomaly := 134.963 + 13.064993*d
		return model.NormalizeDegrees(meanLon + 6.289*math.Sin(radians(meanAnomaly)))
	case model.NorthNode:
		return model.NormalizeDegrees(125.045 - 0.0529538*d)
	}

	o, ok := heliocentric[body]
	if !ok {
		return 0
	}
	ex, ey := position(earthOrbit, d)
	px, py := position(o, d)
	return model.NormalizeDegrees(degrees(math.Atan2(py-ey, px-ex)))
}

func position(o orbit, d float64) (float64, float64) {
	l := radians(o.meanLongitude + o.dailyMotion*d)
	return o.semiMajorAxis * math.Cos(l), o.semiMajorAxis * math.Sin(l)
}

// ascendant derives the rising degree from local sidereal time and latitude.
func ascendant(d, latitude, longitude float64) float64 {
	gmst := 280.46061837 + 360.98564736629*d
	ramc := radians(model.NormalizeDegrees(gmst + longitude))
	eps := radians(23.4393 - 0.0000004*d)
	lat := radians(math.Max(-89, math.Min(89, latitude)))

	y := math.Cos(ramc)
	x := -(math.Sin(eps)*math.Tan(lat) + math.Cos(eps)*math.Sin(ramc))
	return model.NormalizeDegrees(degrees(math.Atan2(y, x)))
}

// signedDelta returns the shortest signed motion from a to b.
func signedDelta(a, b float64) float64 {
	delta := model.NormalizeDegrees(b - a)
	if delta > 180 {
		delta -= 360
	}
	return delta
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
func round4(v float64) float64    { return math.Round(v*10000) / 10000 }
