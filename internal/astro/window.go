package astro

import (
	"fmt"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// SlotLength is the spacing between scanned moments.
const SlotLength = time.Hour

// FormatDuration renders a minute count as whole hours when at least an hour, else minutes.
func FormatDuration(minutes int) string {
	if minutes >= 60 {
		hours := minutes / 60
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// NewWindow builds a window between two instants.
func NewWindow(start, end time.Time) model.TimeWindow {
	minutes := int(end.Sub(start) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return model.TimeWindow{
		Start:    start,
		End:      end,
		Minutes:  minutes,
		Duration: FormatDuration(minutes),
	}
}

// SpanWindow covers every moment from the earliest to one slot past the latest.
func SpanWindow(moments []time.Time) (model.TimeWindow, bool) {
	if len(moments) == 0 {
		return model.TimeWindow{}, false
	}
	earliest, latest := moments[0], moments[0]
	for _, m := range moments[1:] {
		if m.Before(earliest) {
			earliest = m
		}
		if m.After(latest) {
			latest = m
		}
	}
	return NewWindow(earliest, latest.Add(SlotLength)), true
}
