package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const maxTitleWidth = 60

// RenderReport writes a scan summary box followed by the event table.
func RenderReport(w io.Writer, report *model.ScanReport) error {
	req := report.Request
	priorities := make([]string, len(req.Priorities))
	for i, p := range req.Priorities {
		priorities[i] = p.Display()
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Period:      %s %d\n", req.Month, req.Year)
	fmt.Fprintf(&summary, "Location:    %.4f, %.4f\n", req.Latitude, req.Longitude)
	fmt.Fprintf(&summary, "Priorities:  %s\n", strings.Join(priorities, ", "))
	fmt.Fprintf(&summary, "Slots:       %d (%d errors)\n", report.Stats.Slots, report.Stats.Errors)
	fmt.Fprintf(&summary, "Candidates:  %d raw, %d consolidated\n", report.Stats.RawResults, report.Stats.Consolidated)
	fmt.Fprintf(&summary, "Selected:    %d", report.Stats.Selected)
	if report.ID != "" {
		fmt.Fprintf(&summary, "\nSaved as:    %s", report.ID)
	}

	title := "Optimal Timing Scan"
	if _, err := fmt.Fprintln(w, RenderBox(StarIcon+" "+title, summary.String())); err != nil {
		return err
	}
	if report.Stats.UsedFallback {
		if _, err := fmt.Fprintln(w, FormatWarning("No moment cleared the normal tiers; showing the best available.")); err != nil {
			return err
		}
	}
	if report.Stats.Canceled {
		if _, err := fmt.Fprintln(w, FormatWarning("Scan was interrupted; results are partial.")); err != nil {
			return err
		}
	}
	return RenderEvents(w, report.Events)
}

// RenderEvents writes events as an aligned table.
func RenderEvents(w io.Writer, events []model.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No events."))
		return err
	}

	header := row("DATE", "TIME", "SCORE", "METHOD", "TITLE")
	if _, err := fmt.Fprintln(w, TableHeaderStyle.Render(header)); err != nil {
		return err
	}

	for _, ev := range events {
		score := EventStyle(ev.Type).Render(fmt.Sprintf("%5.2f", ev.Score))
		title := truncate(ev.Title, maxTitleWidth)
		if ev.MagicFormula.Active() {
			title = MagicStyle.Render(MagicIcon) + " " + title
		}
		if _, err := fmt.Fprintln(w, row(ev.Date, ev.Time, score, string(ev.Method), title)); err != nil {
			return err
		}
		if ev.Description != "" {
			if _, err := fmt.Fprintln(w, SubtleStyle.Render("    "+ev.Description)); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderHistory writes a table of stored scans.
func RenderHistory(w io.Writer, reports []model.ScanReport) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No saved scans."))
		return err
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("ID", 38), cell("PERIOD", 16), cell("SELECTED", 10), cell("CREATED", 20))
	if _, err := fmt.Fprintln(w, TableHeaderStyle.Render(header)); err != nil {
		return err
	}
	for _, r := range reports {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			cell(r.ID, 38),
			cell(fmt.Sprintf("%s %d", r.Request.Month, r.Request.Year), 16),
			cell(fmt.Sprintf("%d", r.Stats.Selected), 10),
			cell(r.CreatedAt.Local().Format(time.DateTime), 20))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func row(date, clock, score, method, title string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(date, 12), cell(clock, 7), cell(score, 7), cell(method, 12), title)
}

func cell(text string, width int) string {
	return TableCellStyle.Width(width).Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
