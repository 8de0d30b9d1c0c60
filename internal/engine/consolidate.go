package engine

import (
	"fmt"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/title"
)

// Consolidate merges results that share a day and a house-based title into a
// single result spanning their time window. The best-scoring member
// represents the group; singletons pass through unchanged.
func Consolidate(results []model.TimingResult, priorities []model.Priority, titles *title.Generator) []model.TimingResult {
	type group struct {
		members []model.TimingResult
	}

	var order []string
	groups := make(map[string]*group)
	for _, r := range results {
		key := r.Date() + "|" + titles.Title(r.Chart, priorities, model.MethodHouses, 0)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, r)
	}

	out := make([]model.TimingResult, 0, len(order))
	for _, key := range order {
		members := groups[key].members
		if len(members) == 1 {
			out = append(out, members[0])
			continue
		}
		out = append(out, merge(members))
	}

	SortChronologically(out)
	return out
}

func merge(members []model.TimingResult) model.TimingResult {
	best := members[0]
	moments := make([]time.Time, 0, len(members))
	for _, m := range members {
		moments = append(moments, m.Moment)
		if m.Window != nil {
			moments = append(moments, m.Window.Start, m.Window.End.Add(-astro.SlotLength))
		}
		if m.Score > best.Score {
			best = m
		}
	}

	window, _ := astro.SpanWindow(moments)
	merged := best
	merged.Window = &window
	merged.Description = fmt.Sprintf("%s (%s window)", best.Description, window.Duration)
	return merged
}
