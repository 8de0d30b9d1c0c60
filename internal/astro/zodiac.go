// Package astro provides pure astrological helper functions shared by the
// scoring, pattern and ephemeris packages.
package astro

import (
	"fmt"
	"math"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// SignOf returns the sign containing an ecliptic longitude.
func SignOf(longitude float64) model.Sign {
	idx := int(model.NormalizeDegrees(longitude) / 30)
	if idx > 11 {
		idx = 11
	}
	return model.Signs[idx]
}

// NextSign returns the sign following s in zodiacal order.
func NextSign(s model.Sign) model.Sign {
	idx := s.Index()
	if idx < 0 {
		return ""
	}
	return model.Signs[(idx+1)%12]
}

// PreviousSign returns the sign preceding s in zodiacal order.
func PreviousSign(s model.Sign) model.Sign {
	idx := s.Index()
	if idx < 0 {
		return ""
	}
	return model.Signs[(idx+11)%12]
}

// OppositeSign returns the sign 180° away.
func OppositeSign(s model.Sign) model.Sign {
	idx := s.Index()
	if idx < 0 {
		return ""
	}
	return model.Signs[(idx+6)%12]
}

// Separation returns the shortest angular distance between two longitudes, 0 to 180.
func Separation(lon1, lon2 float64) float64 {
	d := math.Abs(model.NormalizeDegrees(lon1) - model.NormalizeDegrees(lon2))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HouseFromAscendant places a longitude in an equal-house system starting at the ascendant.
func HouseFromAscendant(longitude, ascendant float64) int {
	offset := model.NormalizeDegrees(longitude - ascendant)
	house := int(offset/30) + 1
	if house > 12 {
		house = 12
	}
	return house
}

// Ordinal formats a house number as "1st", "2nd", "11th".
func Ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// IsAngular reports whether a house is one of the four angles.
func IsAngular(house int) bool {
	return house == 1 || house == 4 || house == 7 || house == 10
}
