package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcoach/internal/ui/layout"
)

// Screen is one full-window view managed by the router. The app frame draws
// the header and footer around whatever View returns.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen describe its keys in the footer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// quitHint is always available: the app handles ctrl+c itself.
var quitHint = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}

// FooterHints returns s's own hints followed by the global quit hint.
func FooterHints(s Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := s.(KeyHintProvider); ok {
		hints = append(hints, p.KeyHints()...)
	}
	return append(hints, quitHint)
}
