package astro

import "github.com/Veraticus/the-stars-must-align/internal/model"

var rulerships = map[model.Planet][]model.Sign{
	model.Sun:     {model.Leo},
	model.Moon:    {model.Cancer},
	model.Mercury: {model.Gemini, model.Virgo},
	model.Venus:   {model.Taurus, model.Libra},
	model.Mars:    {model.Aries, model.Scorpio},
	model.Jupiter: {model.Sagittarius, model.Pisces},
	model.Saturn:  {model.Capricorn, model.Aquarius},
	model.Uranus:  {model.Aquarius},
	model.Neptune: {model.Pisces},
	model.Pluto:   {model.Scorpio},
}

var exaltations = map[model.Planet]model.Sign{
	model.Sun:     model.Aries,
	model.Moon:    model.Taurus,
	model.Mercury: model.Virgo,
	model.Venus:   model.Pisces,
	model.Mars:    model.Capricorn,
	model.Jupiter: model.Cancer,
	model.Saturn:  model.Libra,
	model.Uranus:  model.Scorpio,
	model.Neptune: model.Cancer,
	model.Pluto:   model.Leo,
}

// DignityOf classifies a planet's essential dignity in a sign. Rulership wins
// over exaltation when a sign qualifies for both.
func DignityOf(planet model.Planet, sign model.Sign) model.Dignity {
	for _, s := range rulerships[planet] {
		if s == sign {
			return model.Rulership
		}
	}
	if ex, ok := exaltations[planet]; ok && ex == sign {
		return model.Exaltation
	}
	for _, s := range rulerships[planet] {
		if OppositeSign(s) == sign {
			return model.Detriment
		}
	}
	if ex, ok := exaltations[planet]; ok && OppositeSign(ex) == sign {
		return model.Fall
	}
	return model.Neutral
}

// DignityMultiplier returns the multiplier for a chart planet, 1.0 when the planet is absent.
func DignityMultiplier(chart *model.Chart, planet model.Planet) float64 {
	pos, ok := chart.Planet(planet)
	if !ok {
		return 1.0
	}
	return DignityOf(planet, pos.Sign).Multiplier()
}

// Rulers returns the signs a planet rules.
func Rulers(planet model.Planet) []model.Sign {
	return rulerships[planet]
}
