package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/skillcoach/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.updates++
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestReplaceScreenMsg(t *testing.T) {
	session := &stubScreen{title: "session"}
	r := New(session)

	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})

	assert.Equal(t, "summary", r.Active().Title())
	assert.Equal(t, "summary", r.View(80, 24))
	assert.True(t, summary.initRan)
	assert.Equal(t, 0, session.updates, "navigation messages are not forwarded")
}

func TestUpdateForwardsToActive(t *testing.T) {
	s1 := &stubScreen{title: "session"}
	r := New(s1)
	r.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	assert.Equal(t, 1, s1.updates)
}

func TestNilActive(t *testing.T) {
	r := New(nil)
	assert.Nil(t, r.Update(tea.KeyPressMsg{Code: 'y', Text: "y"}))
	assert.Empty(t, r.View(80, 24))
	assert.Nil(t, r.Replace(nil))
}
