package app

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcoach/internal/clock"
	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/screen"
	"github.com/abhisek/skillcoach/internal/store"
	"github.com/abhisek/skillcoach/internal/ui/layout"
)

type stubScreen struct {
	title string
	msgs  []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.msgs = append(s.msgs, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return "stub body" }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "X", Description: "Stub"}}
}

func sized(m AppModel, w, h int) AppModel {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(AppModel)
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModelWith(&stubScreen{title: "Stub"}, "kid")
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestAppModel_ForwardsToActiveScreen(t *testing.T) {
	stub := &stubScreen{title: "Stub"}
	m := newAppModelWith(stub, "kid")
	m.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	assert.Len(t, stub.msgs, 1)
}

func TestAppModel_ViewFrame(t *testing.T) {
	m := sized(newAppModelWith(&stubScreen{title: "Stub"}, "kid"), 80, 24)
	content := m.render()
	assert.Contains(t, content, "kid")
	assert.Contains(t, content, "Stub")
	assert.Contains(t, content, "stub body")
	assert.Contains(t, content, "Ctrl+C")
}

func TestAppModel_TooSmall(t *testing.T) {
	m := sized(newAppModelWith(&stubScreen{}, "kid"), 20, 5)
	assert.Contains(t, m.render(), "Terminal too small")
}

func TestAppModel_NoSizeYet(t *testing.T) {
	m := newAppModelWith(&stubScreen{}, "kid")
	assert.Empty(t, m.render())
}

func TestAppModel_InitStartsSession(t *testing.T) {
	m := newAppModel(Options{
		User:   "kid",
		Skills: []roster.SelectedSkill{{SkillID: "a", Name: "A", Order: 1}},
		Store:  store.NewMemory(),
		Clock:  clock.NewFake(time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)),
	})
	assert.NotNil(t, m.Init())
	assert.Equal(t, "Session", m.router.Active().Title())
}
