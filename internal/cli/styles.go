// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (midnight violet).
	PrimaryColor = lipgloss.Color("#A78BFA")
	// BeneficColor marks favorable events.
	BeneficColor = lipgloss.Color("#4ECDC4") // Teal
	// NeutralColor marks middling events.
	NeutralColor = lipgloss.Color("#FFE66D") // Yellow
	// ChallengingColor marks difficult events and errors.
	ChallengingColor = lipgloss.Color("#FF6B6B") // Red
	// MagicColor highlights Magic Formula moments.
	MagicColor = lipgloss.Color("#F5C2E7") // Pink
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(BeneficColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(NeutralColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ChallengingColor)

	// MagicStyle formats Magic Formula badges.
	MagicStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(MagicColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	StarIcon    = "✨"
	MoonIcon    = "🌙"
	MagicIcon   = "🪄"
)

// EventStyle returns the style for an event type.
func EventStyle(t model.EventType) lipgloss.Style {
	switch t {
	case model.EventBenefic:
		return SuccessStyle
	case model.EventNeutral:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatTitle formats a title with the star icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(StarIcon + " " + title)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}
