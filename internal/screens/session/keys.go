package session

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/skillcoach/internal/ui/layout"
)

type keyMap struct {
	Yes  key.Binding
	No   key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("Y", "Yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("N", "No"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("Q", "End session"),
	),
}

func hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}
