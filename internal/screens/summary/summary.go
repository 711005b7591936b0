package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcoach/internal/progress"
	"github.com/abhisek/skillcoach/internal/screen"
	"github.com/abhisek/skillcoach/internal/session"
	"github.com/abhisek/skillcoach/internal/ui/components"
	"github.com/abhisek/skillcoach/internal/ui/layout"
	"github.com/abhisek/skillcoach/internal/ui/theme"
)

// SummaryScreen displays the finished session and today's progress.
type SummaryScreen struct {
	summary *session.SessionSummary
	today   progress.DailyProgress
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.SessionSummary, today progress.DailyProgress) *SummaryScreen {
	return &SummaryScreen{summary: summary, today: today}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Exit"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!")))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Subtitle.Render(fmt.Sprintf("Duration: %d:%02d   Skills shown: %d/%d",
		mins, secs, sum.Presented, sum.Scheduled))))
	b.WriteString("\n\n")

	b.WriteString(center(
		theme.Yes.Render(fmt.Sprintf("Yes %d", sum.Yes)) + "      " +
			theme.No.Render(fmt.Sprintf("No %d", sum.No)) + "      " +
			theme.NoResponse.Render(fmt.Sprintf("No response %d", sum.NoResponse))))
	b.WriteString("\n")
	if sum.Unanswered > 0 {
		b.WriteString(center(theme.Hint.Render(fmt.Sprintf("%d shown but not answered", sum.Unanswered))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Today " + s.today.Date)))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	if s.today.HasData() {
		bar := components.NewRateBar("Success", s.today.SuccessRate, min(width-8, 60))
		b.WriteString(center(bar.View()))
		b.WriteString("\n")
		b.WriteString(center(theme.Body.Render(fmt.Sprintf("%d of %d roster skills answered today",
			s.today.CompletedSkills, s.today.TotalSkills))))
	} else {
		b.WriteString(center(theme.Hint.Render("No saved responses for today.")))
	}
	b.WriteString("\n")

	if sum.Unpersisted > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Warning.Render(fmt.Sprintf(
			"%d responses could not be saved and are missing from today's progress.", sum.Unpersisted))))
		b.WriteString("\n")
	}

	return b.String()
}
