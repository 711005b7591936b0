package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/skillcoach/internal/session"
	"github.com/abhisek/skillcoach/internal/store"
	"github.com/abhisek/skillcoach/internal/ui/components"
	"github.com/abhisek/skillcoach/internal/ui/layout"
	"github.com/abhisek/skillcoach/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width, height)
	}
	if s.sched.Len() == 0 {
		return renderEmpty(width, height)
	}

	var b strings.Builder

	// Status line: progress through the roster and time to the next skill.
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Skill %d of %d", s.sched.PresentedCount(), s.sched.Len()))

	next := "all skills shown"
	if ms, ok := s.sched.TimeUntilNext(s.nowMs); ok {
		next = "next in " + layout.FormatCountdown(ms)
	}
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(next)

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if p := s.sched.PendingResponse(); p != nil {
		b.WriteString(center.Render(theme.SkillCard.Render(p.SkillName)))
		b.WriteString("\n\n")
		b.WriteString(center.Render(theme.Body.Render("Did it happen?  ") +
			theme.Yes.Render("[Y] Yes") + "   " + theme.No.Render("[N] No")))
		if s.timeout > 0 && p.PresentedAtMs != nil {
			remaining := s.timeout.Milliseconds() - (s.nowMs - *p.PresentedAtMs)
			b.WriteString("\n")
			b.WriteString(center.Render(theme.Hint.Render("closes in " + layout.FormatCountdown(remaining))))
		}
	} else if s.ending {
		b.WriteString(center.Render(theme.Subtitle.Render("Wrapping up...")))
	} else {
		b.WriteString(center.Render(theme.Subtitle.Render("Waiting for the next skill")))
	}
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Presented",
		float64(s.sched.PresentedCount())/float64(s.sched.Len()), false, max(width-8, 20))
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	b.WriteString(renderEvents(s.sched.Events(), width))

	if s.lastSaved != nil {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  saved %s: %s", s.lastSaved.SkillName, s.lastSaved.Response)))
		b.WriteString("\n")
	}

	if s.warning != "" {
		b.WriteString("\n")
		b.WriteString("  " + theme.Warning.Render("! "+s.warning))
		if s.unpersisted > 0 {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  (%d unsaved)", s.unpersisted)))
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

// renderEvents lists every scheduled skill with its outcome so far.
func renderEvents(events []sess.Event, width int) string {
	var b strings.Builder
	for _, e := range events {
		mark := theme.Pending.Render("·")
		status := theme.Pending.Render("waiting")
		switch {
		case e.Response == store.ResponseYes:
			mark, status = theme.Yes.Render("✓"), theme.Yes.Render("yes")
		case e.Response == store.ResponseNo:
			mark, status = theme.No.Render("✗"), theme.No.Render("no")
		case e.Response == store.ResponseNone:
			mark, status = theme.NoResponse.Render("–"), theme.NoResponse.Render("no response")
		case e.Presented():
			mark, status = theme.Warning.Render("▸"), theme.Warning.Render("now")
		}
		name := lipgloss.NewStyle().Foreground(theme.Text).Width(max(width/2, 12)).Render(e.SkillName)
		b.WriteString(fmt.Sprintf("  %s %s %s\n", mark, name, status))
	}
	return b.String()
}

func renderQuitConfirm(width, height int) string {
	box := theme.Card.Render(
		theme.Title.Render("End this session?") + "\n\n" +
			theme.Body.Render("Skills not yet shown will not be recorded.") + "\n\n" +
			theme.Hint.Render("[Y] End session   [N] Keep going"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func renderEmpty(width, height int) string {
	msg := theme.Subtitle.Render("The roster is empty.\n\nAdd skills with `skillcoach roster add`.")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}
