package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcoach/internal/screen"
)

// ReplaceScreenMsg swaps the active screen, e.g. a finished session for its summary.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router holds the active screen. Only that screen receives input.
type Router struct {
	active screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{active: initial}
}

// Replace makes s the active screen and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.active = s
	if s == nil {
		return nil
	}
	return s.Init()
}

func (r *Router) Active() screen.Screen {
	return r.active
}

// Update applies navigation messages; anything else goes to the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ReplaceScreenMsg); ok {
		return r.Replace(msg.Screen)
	}
	if r.active == nil {
		return nil
	}
	next, cmd := r.active.Update(msg)
	r.active = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if r.active != nil {
		return r.active.View(width, height)
	}
	return ""
}
