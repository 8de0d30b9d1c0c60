// Package model defines the core data structures for the stars application.
package model

import "strings"

// Planet identifies a body or calculated point in a chart.
type Planet string

// Bodies returned by every ephemeris.
const (
	Sun       Planet = "sun"
	Moon      Planet = "moon"
	Mercury   Planet = "mercury"
	Venus     Planet = "venus"
	Mars      Planet = "mars"
	Jupiter   Planet = "jupiter"
	Saturn    Planet = "saturn"
	Uranus    Planet = "uranus"
	Neptune   Planet = "neptune"
	Pluto     Planet = "pluto"
	NorthNode Planet = "northnode"
)

// CoreBodies lists the ten bodies an ephemeris must always return.
var CoreBodies = []Planet{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// Display returns the capitalized planet name.
func (p Planet) Display() string {
	if p == NorthNode {
		return "North Node"
	}
	if p == "" {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsMalefic reports whether the planet is one of the traditional hard-hitters
// used for affliction checks.
func (p Planet) IsMalefic() bool {
	return p == Mars || p == Saturn || p == Pluto
}

// IsBenefic reports whether the planet is a traditional benefic.
func (p Planet) IsBenefic() bool {
	return p == Jupiter || p == Venus
}

// Sign is one of the twelve zodiac signs.
type Sign string

// Zodiac signs in order from 0° Aries.
const (
	Aries       Sign = "aries"
	Taurus      Sign = "taurus"
	Gemini      Sign = "gemini"
	Cancer      Sign = "cancer"
	Leo         Sign = "leo"
	Virgo       Sign = "virgo"
	Libra       Sign = "libra"
	Scorpio     Sign = "scorpio"
	Sagittarius Sign = "sagittarius"
	Capricorn   Sign = "capricorn"
	Aquarius    Sign = "aquarius"
	Pisces      Sign = "pisces"
)

// Signs lists the zodiac in order; index × 30° is the sign's starting longitude.
var Signs = []Sign{Aries, Taurus, Gemini, Cancer, Leo, Virgo, Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces}

// Display returns the capitalized sign name.
func (s Sign) Display() string {
	if s == "" {
		return ""
	}
	str := string(s)
	return strings.ToUpper(str[:1]) + str[1:]
}

// Index returns the zero-based zodiac position of the sign, or -1 if unknown.
func (s Sign) Index() int {
	for i, sign := range Signs {
		if sign == s {
			return i
		}
	}
	return -1
}

// AspectKind is a classified angular relationship between two planets.
type AspectKind string

// Supported aspect kinds.
const (
	Conjunction AspectKind = "conjunction"
	Sextile     AspectKind = "sextile"
	Square      AspectKind = "square"
	Trine       AspectKind = "trine"
	Quincunx    AspectKind = "quincunx"
	Opposition  AspectKind = "opposition"
)

// AspectKinds lists all aspect kinds in order of exact angle.
var AspectKinds = []AspectKind{Conjunction, Sextile, Square, Trine, Quincunx, Opposition}

// Angle returns the exact separation in degrees for the aspect.
func (k AspectKind) Angle() float64 {
	switch k {
	case Conjunction:
		return 0
	case Sextile:
		return 60
	case Square:
		return 90
	case Trine:
		return 120
	case Quincunx:
		return 150
	case Opposition:
		return 180
	default:
		return -1
	}
}

// Tolerance returns the maximum orb at which the aspect is still recognized.
func (k AspectKind) Tolerance() float64 {
	switch k {
	case Conjunction, Opposition, Trine:
		return 8
	case Square:
		return 7
	case Sextile:
		return 6
	case Quincunx:
		return 3
	default:
		return 0
	}
}

// Dignity is a planet's essential strength classification in its sign.
type Dignity string

// Dignity classifications.
const (
	Rulership  Dignity = "rulership"
	Exaltation Dignity = "exaltation"
	Neutral    Dignity = "neutral"
	Detriment  Dignity = "detriment"
	Fall       Dignity = "fall"
)

// Multiplier returns the scoring multiplier for the dignity.
func (d Dignity) Multiplier() float64 {
	switch d {
	case Rulership:
		return 1.5
	case Exaltation:
		return 1.3
	case Detriment:
		return 0.7
	case Fall:
		return 0.5
	default:
		return 1.0
	}
}

// IsDignified reports rulership or exaltation.
func (d Dignity) IsDignified() bool {
	return d == Rulership || d == Exaltation
}

// IsDebilitated reports detriment or fall.
func (d Dignity) IsDebilitated() bool {
	return d == Detriment || d == Fall
}

// MoonPhase is one of the eight traditional lunar phases.
type MoonPhase string

// Lunar phases in waxing order.
const (
	NewMoon        MoonPhase = "new_moon"
	WaxingCrescent MoonPhase = "waxing_crescent"
	FirstQuarter   MoonPhase = "first_quarter"
	WaxingGibbous  MoonPhase = "waxing_gibbous"
	FullMoon       MoonPhase = "full_moon"
	WaningGibbous  MoonPhase = "waning_gibbous"
	LastQuarter    MoonPhase = "last_quarter"
	WaningCrescent MoonPhase = "waning_crescent"
)

// MoonPhases lists the phases in waxing order, one per 45° of elongation.
var MoonPhases = []MoonPhase{NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous, FullMoon, WaningGibbous, LastQuarter, WaningCrescent}

// Display returns a human-readable phase name.
func (m MoonPhase) Display() string {
	parts := strings.Split(string(m), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
