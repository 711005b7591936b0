package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcoach/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 18
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Terminal too small") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("need %dx%d, have %dx%d", MinWidth, MinHeight, width, height))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// RenderHeader shows the app name, the screen title centered, and the
// active user on the right.
func RenderHeader(title, user string, width int) string {
	app := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  SkillCoach")
	who := lipgloss.NewStyle().Foreground(theme.Accent).Render("● " + user)

	inner := max(width-4, 0) // border + padding
	side := max(lipgloss.Width(app), lipgloss.Width(who))
	middle := max(inner-2*side, lipgloss.Width(title))

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(side).Render(app),
		lipgloss.NewStyle().Width(middle).Align(lipgloss.Center).Foreground(theme.Text).Render(title),
		lipgloss.NewStyle().Width(side).Align(lipgloss.Right).Render(who),
	)
	return bar.Width(width).Render(line)
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderFooter lays out key hints separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	sep := descStyle.Render("  ·  ")

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description))
	}
	return bar.Width(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, sizing the content to
// whatever height the two bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// FormatCountdown renders milliseconds as m:ss, rounding up so a countdown
// never shows 0:00 before the skill is actually due.
func FormatCountdown(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := (ms + 999) / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
