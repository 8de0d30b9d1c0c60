package engine

import (
	"sort"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// Score tiers used by the distributor.
const (
	MagicMinScore       = 0.5
	ExcellentScore      = 3.0
	GoodScore           = 1.5
	DecentScore         = 1.0
	ChallengingScore    = 0.5
	fallbackLimit       = 10
	goodCapWithTop      = 2
	goodCapWithoutTop   = 3
	challengingDayLimit = 3
)

// Distribute shapes results into a calendar-friendly spread. Tiers are
// selected in order (magic, excellent, good, decent, challenging) and each
// selected result leaves the pool. When nothing qualifies, the ten best
// positive results are returned by descending score and the second return
// value reports that the fallback was used.
func Distribute(results []model.TimingResult, daysInMonth int) ([]model.TimingResult, bool) {
	pool := dedupe(results)
	taken := make([]bool, len(pool))
	perDay := make(map[string]int, daysInMonth)

	var selected []model.TimingResult
	take := func(i int) {
		taken[i] = true
		selected = append(selected, pool[i])
		perDay[pool[i].Date()]++
	}

	for i, r := range pool {
		if r.MagicFormula.Active() && r.Score >= MagicMinScore {
			take(i)
		}
	}
	for i, r := range pool {
		if !taken[i] && r.Score >= ExcellentScore {
			take(i)
		}
	}

	topDays := make(map[string]bool, len(perDay))
	for day := range perDay {
		topDays[day] = true
	}

	days, byDay := bucket(pool, taken, GoodScore, ExcellentScore)
	for _, day := range days {
		limit := goodCapWithoutTop
		if topDays[day] {
			limit = goodCapWithTop
		}
		for n, i := range byDay[day] {
			if n >= limit {
				break
			}
			take(i)
		}
	}

	days, byDay = bucket(pool, taken, DecentScore, GoodScore)
	for _, day := range days {
		if perDay[day] == 0 {
			take(byDay[day][0])
		}
	}

	days, byDay = bucket(pool, taken, ChallengingScore, DecentScore)
	for _, day := range days {
		if perDay[day] < challengingDayLimit {
			take(byDay[day][0])
		}
	}

	if len(selected) > 0 {
		SortChronologically(selected)
		return selected, false
	}

	return fallback(pool), true
}

// bucket groups untaken pool indexes with score in [low, high) by day, best first.
func bucket(pool []model.TimingResult, taken []bool, low, high float64) ([]string, map[string][]int) {
	byDay := make(map[string][]int)
	var days []string
	for i, r := range pool {
		if taken[i] || r.Score < low || r.Score >= high {
			continue
		}
		day := r.Date()
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], i)
	}
	sort.Strings(days)
	for _, idx := range byDay {
		sort.SliceStable(idx, func(a, b int) bool {
			return pool[idx[a]].Score > pool[idx[b]].Score
		})
	}
	return days, byDay
}

func fallback(pool []model.TimingResult) []model.TimingResult {
	var positive []model.TimingResult
	for _, r := range pool {
		if r.Score > 0 {
			positive = append(positive, r)
		}
	}
	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].Score > positive[j].Score
	})
	if len(positive) > fallbackLimit {
		positive = positive[:fallbackLimit]
	}
	return positive
}

// dedupe keeps the best result per (date, time, method), preserving chronological order.
func dedupe(results []model.TimingResult) []model.TimingResult {
	index := make(map[string]int, len(results))
	out := make([]model.TimingResult, 0, len(results))
	for _, r := range results {
		key := r.Key()
		if i, ok := index[key]; ok {
			if r.Score > out[i].Score {
				out[i] = r
			}
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	SortChronologically(out)
	return out
}
