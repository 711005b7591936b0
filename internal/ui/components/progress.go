package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcoach/internal/ui/theme"
)

// Bar is a horizontal fill gauge with an optional label and percentage.
type Bar struct {
	Label       string
	Fraction    float64 // 0.0-1.0, clamped when rendered
	ShowPercent bool
	Width       int // total width including label and percentage
	Fill        color.Color
}

// NewProgressBar returns a bar for fraction (0.0-1.0) of some count.
func NewProgressBar(label string, fraction float64, showPercent bool, width int) Bar {
	return Bar{
		Label:       label,
		Fraction:    fraction,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        theme.Secondary,
	}
}

// NewRateBar returns a bar for a 0-100 success rate, colored by grade.
func NewRateBar(label string, rate int, width int) Bar {
	b := NewProgressBar(label, float64(rate)/100, true, width)
	b.Fill = theme.RateColor(rate)
	return b
}

func (b Bar) View() string {
	frac := min(max(b.Fraction, 0), 1)

	var prefix, suffix string
	if b.Label != "" {
		prefix = lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label) + "  "
	}
	if b.ShowPercent {
		suffix = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Width(6).
			Align(lipgloss.Right).
			Render(fmt.Sprintf("%d%%", int(frac*100+0.5)))
	}

	cells := max(b.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix), 4)
	filled := int(float64(cells) * frac)

	fill := lipgloss.NewStyle().Background(b.Fill).Render(strings.Repeat(" ", filled))
	rest := lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", cells-filled))
	return prefix + fill + rest + suffix
}
