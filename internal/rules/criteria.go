// Package rules holds the static configuration the analyzer scores against:
// per-priority criteria, electional prohibitions, moon-phase multipliers and
// scanner thresholds. Everything here is plain data so callers can inject
// alternate rule sets.
package rules

import (
	"fmt"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// Combo is a named group of planets that counts when all of them occupy the same house.
type Combo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Planets     []model.Planet `json:"planets"`
	House       int            `json:"house"`
	Bonus       float64        `json:"bonus"`
}

// Matches reports whether every combo planet sits in the combo house.
func (c Combo) Matches(chart *model.Chart) bool {
	if len(c.Planets) == 0 {
		return false
	}
	for _, name := range c.Planets {
		pos, ok := chart.Planet(name)
		if !ok || pos.House != c.House {
			return false
		}
	}
	return true
}

// IsChallenging reports a penalty combo.
func (c Combo) IsChallenging() bool {
	return c.Bonus < 0
}

// Criteria describes what makes a moment favorable for one priority.
type Criteria struct {
	Weights            map[string]float64 `json:"weights"`
	Planets            []model.Planet     `json:"planets"`
	Houses             []int              `json:"houses"`
	FavorableAspects   []model.AspectKind `json:"favorable_aspects"`
	ChallengingAspects []model.AspectKind `json:"challenging_aspects"`
	Combos             []Combo            `json:"combos,omitempty"`
}

// IsFavorablePlanet reports whether the planet is in the favorable set.
func (c Criteria) IsFavorablePlanet(p model.Planet) bool {
	for _, fp := range c.Planets {
		if fp == p {
			return true
		}
	}
	return false
}

// IsFavorableHouse reports whether the house is in the favorable set.
func (c Criteria) IsFavorableHouse(h int) bool {
	for _, fh := range c.Houses {
		if fh == h {
			return true
		}
	}
	return false
}

// IsFavorableAspect reports whether the aspect kind helps this priority.
func (c Criteria) IsFavorableAspect(k model.AspectKind) bool {
	for _, a := range c.FavorableAspects {
		if a == k {
			return true
		}
	}
	return false
}

// IsChallengingAspect reports whether the aspect kind hurts this priority.
func (c Criteria) IsChallengingAspect(k model.AspectKind) bool {
	for _, a := range c.ChallengingAspects {
		if a == k {
			return true
		}
	}
	return false
}

// PlanetWeight returns the weight for a planet, 1.0 when unset.
func (c Criteria) PlanetWeight(p model.Planet) float64 {
	return c.weight(string(p))
}

// HouseWeight returns the weight for a house, 1.0 when unset.
func (c Criteria) HouseWeight(h int) float64 {
	return c.weight(HouseKey(h))
}

func (c Criteria) weight(key string) float64 {
	if w, ok := c.Weights[key]; ok && w > 0 {
		return w
	}
	return 1.0
}

// HouseKey is the weight-table key for a house.
func HouseKey(h int) string {
	return fmt.Sprintf("house%d", h)
}

// CriteriaTable maps each priority to its criteria.
type CriteriaTable map[model.Priority]Criteria

// Lookup returns the criteria for a priority. Unknown priorities report false
// and contribute nothing to any score.
func (t CriteriaTable) Lookup(p model.Priority) (Criteria, bool) {
	c, ok := t[p]
	return c, ok
}

var (
	supportive = []model.AspectKind{model.Conjunction, model.Trine, model.Sextile}
	hard       = []model.AspectKind{model.Square, model.Opposition}
)

// DefaultCriteria returns the built-in criteria table.
func DefaultCriteria() CriteriaTable {
	return CriteriaTable{
		model.Career: {
			Planets:            []model.Planet{model.Sun, model.Jupiter, model.Saturn, model.Mars, model.Mercury},
			Houses:             []int{10, 6, 2, 1},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"sun": 2.0, "jupiter": 2.0, "saturn": 1.5, "mars": 1.2, "mercury": 1.2,
				"house10": 2.5, "house6": 1.5, "house2": 1.2, "house1": 1.3,
			},
			Combos: []Combo{
				{Name: "Sun & Jupiter in the 10th", Description: "Recognition and promotion", Planets: []model.Planet{model.Sun, model.Jupiter}, House: 10, Bonus: 3.0},
				{Name: "Saturn & Mars in the 10th", Description: "Friction with authority", Planets: []model.Planet{model.Saturn, model.Mars}, House: 10, Bonus: -2.0},
			},
		},
		model.Love: {
			Planets:            []model.Planet{model.Venus, model.Moon, model.Jupiter, model.Mars, model.Sun},
			Houses:             []int{5, 7, 1, 11},
			FavorableAspects:   supportive,
			ChallengingAspects: []model.AspectKind{model.Square, model.Opposition, model.Quincunx},
			Weights: map[string]float64{
				"venus": 2.5, "moon": 1.5, "jupiter": 1.8, "mars": 1.2, "sun": 1.0,
				"house7": 2.5, "house5": 2.0, "house1": 1.2, "house11": 1.0,
			},
			Combos: []Combo{
				{Name: "Venus & Jupiter in the 7th", Description: "Blessed partnership", Planets: []model.Planet{model.Venus, model.Jupiter}, House: 7, Bonus: 3.0},
				{Name: "Venus & Mars in the 5th", Description: "Romantic spark", Planets: []model.Planet{model.Venus, model.Mars}, House: 5, Bonus: 2.0},
				{Name: "Saturn & Venus in the 7th", Description: "Cold partnership energy", Planets: []model.Planet{model.Saturn, model.Venus}, House: 7, Bonus: -1.5},
			},
		},
		model.Money: {
			Planets:            []model.Planet{model.Jupiter, model.Venus, model.Mercury, model.Sun, model.Pluto},
			Houses:             []int{2, 8, 10, 11},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"jupiter": 2.0, "venus": 2.0, "mercury": 1.3, "sun": 1.0, "pluto": 1.2,
				"house2": 2.0, "house8": 1.8, "house10": 1.3, "house11": 1.2,
			},
			Combos: []Combo{
				{Name: "Jupiter & Venus in the 2nd", Description: "Income expansion", Planets: []model.Planet{model.Jupiter, model.Venus}, House: 2, Bonus: 3.0},
				{Name: "Jupiter & Pluto in the 8th", Description: "Investment transformation", Planets: []model.Planet{model.Jupiter, model.Pluto}, House: 8, Bonus: 2.5},
				{Name: "Saturn & Mars in the 2nd", Description: "Financial strain", Planets: []model.Planet{model.Saturn, model.Mars}, House: 2, Bonus: -2.0},
			},
		},
		model.Health: {
			Planets:            []model.Planet{model.Sun, model.Mars, model.Moon, model.Jupiter},
			Houses:             []int{6, 1},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"sun": 1.8, "mars": 1.3, "moon": 1.2, "jupiter": 1.5,
				"house6": 2.0, "house1": 2.0,
			},
			Combos: []Combo{
				{Name: "Sun & Jupiter in the 1st", Description: "Vitality boost", Planets: []model.Planet{model.Sun, model.Jupiter}, House: 1, Bonus: 2.0},
				{Name: "Mars & Saturn in the 6th", Description: "Strain on the body", Planets: []model.Planet{model.Mars, model.Saturn}, House: 6, Bonus: -2.0},
			},
		},
		model.Creativity: {
			Planets:            []model.Planet{model.Venus, model.Sun, model.Neptune, model.Moon, model.Mercury},
			Houses:             []int{5, 3, 12},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"venus": 2.0, "sun": 1.8, "neptune": 1.5, "moon": 1.0, "mercury": 1.0,
				"house5": 2.5, "house3": 1.2, "house12": 1.0,
			},
			Combos: []Combo{
				{Name: "Venus & Neptune in the 5th", Description: "Inspired artistry", Planets: []model.Planet{model.Venus, model.Neptune}, House: 5, Bonus: 2.5},
			},
		},
		model.Communication: {
			Planets:            []model.Planet{model.Mercury, model.Moon, model.Uranus, model.Jupiter},
			Houses:             []int{3, 9, 11},
			FavorableAspects:   supportive,
			ChallengingAspects: []model.AspectKind{model.Square, model.Opposition, model.Quincunx},
			Weights: map[string]float64{
				"mercury": 2.5, "moon": 1.0, "uranus": 1.2, "jupiter": 1.3,
				"house3": 2.5, "house9": 1.5, "house11": 1.2,
			},
			Combos: []Combo{
				{Name: "Mercury & Jupiter in the 3rd", Description: "Persuasive voice", Planets: []model.Planet{model.Mercury, model.Jupiter}, House: 3, Bonus: 2.0},
				{Name: "Mercury & Saturn in the 3rd", Description: "Guarded words", Planets: []model.Planet{model.Mercury, model.Saturn}, House: 3, Bonus: -1.0},
			},
		},
		model.Home: {
			Planets:            []model.Planet{model.Moon, model.Venus, model.Saturn, model.Jupiter},
			Houses:             []int{4, 2},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"moon": 2.5, "venus": 1.5, "saturn": 1.2, "jupiter": 1.5,
				"house4": 2.5, "house2": 1.0,
			},
			Combos: []Combo{
				{Name: "Moon & Jupiter in the 4th", Description: "Abundant household", Planets: []model.Planet{model.Moon, model.Jupiter}, House: 4, Bonus: 2.5},
				{Name: "Mars & Saturn in the 4th", Description: "Tension at home", Planets: []model.Planet{model.Mars, model.Saturn}, House: 4, Bonus: -1.5},
			},
		},
		model.Travel: {
			Planets:            []model.Planet{model.Jupiter, model.Mercury, model.Moon, model.Uranus},
			Houses:             []int{9, 3},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"jupiter": 2.5, "mercury": 1.5, "moon": 1.0, "uranus": 1.0,
				"house9": 2.5, "house3": 1.5,
			},
			Combos: []Combo{
				{Name: "Jupiter & Mercury in the 9th", Description: "Smooth journeys", Planets: []model.Planet{model.Jupiter, model.Mercury}, House: 9, Bonus: 2.5},
			},
		},
		model.Spirituality: {
			Planets:            []model.Planet{model.Neptune, model.Jupiter, model.Moon, model.Pluto, model.Sun},
			Houses:             []int{12, 9, 8},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"neptune": 2.5, "jupiter": 2.0, "moon": 1.2, "pluto": 1.3, "sun": 1.0,
				"house12": 2.5, "house9": 2.0, "house8": 1.3,
			},
			Combos: []Combo{
				{Name: "Neptune & Jupiter in the 12th", Description: "Deep retreat", Planets: []model.Planet{model.Neptune, model.Jupiter}, House: 12, Bonus: 3.0},
			},
		},
		model.Education: {
			Planets:            []model.Planet{model.Mercury, model.Jupiter, model.Saturn, model.Sun},
			Houses:             []int{9, 3, 6},
			FavorableAspects:   supportive,
			ChallengingAspects: hard,
			Weights: map[string]float64{
				"mercury": 2.0, "jupiter": 2.0, "saturn": 1.3, "sun": 1.0,
				"house9": 2.5, "house3": 2.0, "house6": 1.0,
			},
			Combos: []Combo{
				{Name: "Mercury & Jupiter in the 9th", Description: "Breakthrough learning", Planets: []model.Planet{model.Mercury, model.Jupiter}, House: 9, Bonus: 2.5},
			},
		},
	}
}
