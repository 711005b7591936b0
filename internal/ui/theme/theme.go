package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Muted blues with clear yes/no colors that read from across a room.
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#0EA5A4") // Cyan-teal
	Accent    = lipgloss.Color("#EAB308") // Yellow
	Success   = lipgloss.Color("#16A34A") // Green
	Error     = lipgloss.Color("#DC2626") // Red
	Muted     = lipgloss.Color("#A8A29E") // Stone
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#8A94A6")
	BgCard    = lipgloss.Color("#172033")
	Border    = lipgloss.Color("#2E3A50")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Warning  = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// SkillCard frames the skill currently waiting for an answer.
	SkillCard = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Primary).
			Foreground(Text).
			Bold(true).
			Padding(1, 4).
			Align(lipgloss.Center)
)

// Response outcome styles.
var (
	Yes        = lipgloss.NewStyle().Foreground(Success).Bold(true)
	No         = lipgloss.NewStyle().Foreground(Error).Bold(true)
	NoResponse = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	Pending    = lipgloss.NewStyle().Foreground(TextDim)
)

// RateColor grades a 0-100 success rate.
func RateColor(rate int) color.Color {
	switch {
	case rate >= 80:
		return Success
	case rate >= 50:
		return Accent
	default:
		return Error
	}
}
