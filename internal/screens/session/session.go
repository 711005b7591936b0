package session

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/clock"
	"github.com/abhisek/skillcoach/internal/logging"
	"github.com/abhisek/skillcoach/internal/progress"
	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/router"
	"github.com/abhisek/skillcoach/internal/screen"
	sess "github.com/abhisek/skillcoach/internal/session"
	"github.com/abhisek/skillcoach/internal/screens/summary"
	"github.com/abhisek/skillcoach/internal/store"
	"github.com/abhisek/skillcoach/internal/ui/layout"
)

const (
	DefaultTickInterval    = time.Second
	DefaultResponseTimeout = 2 * time.Minute
)

// Options wires the driver to its collaborators.
type Options struct {
	User   string
	Skills []roster.SelectedSkill
	Store  store.ResponseStore
	Clock  clock.Clock
	Logger *zap.Logger

	// TickInterval defaults to DefaultTickInterval when zero.
	TickInterval time.Duration

	// ResponseTimeout closes an unanswered skill as no-response. Zero leaves it
	// open until the next skill becomes due.
	ResponseTimeout time.Duration
}

// SessionScreen drives one live session: it polls the scheduler, presents due
// skills, collects yes/no answers and persists every outcome.
type SessionScreen struct {
	id     string
	user   string
	skills []roster.SelectedSkill
	sched  *sess.Scheduler
	store  store.ResponseStore
	loader *progress.Loader
	clock  clock.Clock
	log    *zap.Logger

	tick    time.Duration
	timeout time.Duration

	nowMs       int64
	inFlight    int
	unpersisted int
	warning     string
	lastSaved   *store.Record

	showingQuitConfirm bool
	ending             bool
	done               bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen. The scheduler is built here and started in Init.
func New(opts Options) *SessionScreen {
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	tick := opts.TickInterval
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	id := uuid.New().String()
	log := logging.OrNop(opts.Logger).With(zap.String("session_id", id), zap.String("user", opts.User))

	return &SessionScreen{
		id:      id,
		user:    opts.User,
		skills:  opts.Skills,
		sched:   sess.NewFromRoster(opts.Skills, clk, log),
		store:   opts.Store,
		loader:  progress.NewLoader(opts.Store, log),
		clock:   clk,
		log:     log,
		tick:    tick,
		timeout: opts.ResponseTimeout,
	}
}

// ID returns the session id used in logs.
func (s *SessionScreen) ID() string {
	return s.id
}

// Scheduler exposes the underlying scheduler for inspection.
func (s *SessionScreen) Scheduler() *sess.Scheduler {
	return s.sched
}

// Unpersisted returns how many responses failed to save.
func (s *SessionScreen) Unpersisted() int {
	return s.unpersisted
}

func (s *SessionScreen) Init() tea.Cmd {
	s.nowMs = s.sched.Start()
	s.log.Info("session started", zap.Int("skills", s.sched.Len()))
	now := s.clock.Now()
	// Poll immediately so a zero-wait first skill shows without a tick delay.
	return func() tea.Msg { return tickMsg(now) }
}

func (s *SessionScreen) Title() string {
	return "Session"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.ending {
		return nil
	}
	hints := []layout.KeyHint{}
	if s.sched.PendingResponse() != nil {
		hints = append(hints, hint(keys.Yes), hint(keys.No))
	}
	return append(hints, hint(keys.Quit))
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick()

	case responseSavedMsg:
		return s.handleSaved(msg)

	case sessionEndMsg:
		return s.handleSessionEnd()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// handleTick closes timed-out skills, presents whatever is due and either
// schedules the next tick or starts the end flow.
func (s *SessionScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.ending {
		return s, nil
	}
	s.nowMs = clock.Millis(s.clock.Now())

	var cmds []tea.Cmd

	if p := s.sched.PendingResponse(); p != nil && s.timedOut(p) {
		s.log.Info("response timed out", zap.String("skill_id", p.SkillID))
		cmds = append(cmds, s.respond(p, store.ResponseNone))
	}

	for due := s.sched.DueEvent(s.nowMs); due != nil; due = s.sched.DueEvent(s.nowMs) {
		if p := s.sched.PendingResponse(); p != nil {
			s.log.Info("skill superseded without response", zap.String("skill_id", p.SkillID))
			cmds = append(cmds, s.respond(p, store.ResponseNone))
		}
		s.sched.MarkPresented(due.SkillID)
	}

	if s.sched.IsComplete() && s.sched.PendingResponse() == nil {
		cmds = append(cmds, func() tea.Msg { return sessionEndMsg{} })
	} else {
		cmds = append(cmds, tickCmd(s.tick))
	}
	return s, tea.Batch(cmds...)
}

func (s *SessionScreen) timedOut(e *sess.Event) bool {
	if s.timeout <= 0 || e.PresentedAtMs == nil {
		return false
	}
	return s.nowMs-*e.PresentedAtMs >= s.timeout.Milliseconds()
}

// respond records value on the scheduler and returns the command that
// persists it.
func (s *SessionScreen) respond(e *sess.Event, value store.Response) tea.Cmd {
	s.sched.RecordResponse(e.SkillID, value)
	rec := store.NewRecord(s.user, e.SkillID, e.SkillName, value, s.clock.Now())
	s.inFlight++
	st := s.store
	return func() tea.Msg {
		if st == nil {
			return responseSavedMsg{Record: rec, Err: store.ErrStorageUnavailable}
		}
		return responseSavedMsg{Record: rec, Err: st.Save(context.Background(), rec)}
	}
}

func (s *SessionScreen) handleSaved(msg responseSavedMsg) (screen.Screen, tea.Cmd) {
	s.inFlight--
	if msg.Err != nil {
		s.unpersisted++
		s.log.Warn("response not persisted",
			zap.String("skill_id", msg.Record.SkillID),
			zap.String("response", string(msg.Record.Response)),
			zap.Error(msg.Err))
		if errors.Is(msg.Err, store.ErrStorageUnavailable) {
			s.warning = "Storage unavailable: responses from this session will not be kept."
		} else {
			s.warning = "Could not save a response: " + msg.Err.Error()
		}
	} else {
		rec := msg.Record
		s.lastSaved = &rec
	}

	if s.ending && s.inFlight == 0 && !s.done {
		return s, s.finish()
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.ending {
		return s, nil
	}

	if s.showingQuitConfirm {
		switch msg.String() {
		case "y", "Y":
			s.showingQuitConfirm = false
			s.log.Info("session ended early", zap.Int("presented", s.sched.PresentedCount()))
			return s, func() tea.Msg { return sessionEndMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	switch {
	case key.Matches(msg, keys.Yes):
		return s, s.answer(store.ResponseYes)
	case key.Matches(msg, keys.No):
		return s, s.answer(store.ResponseNo)
	case key.Matches(msg, keys.Quit):
		s.showingQuitConfirm = true
	}
	return s, nil
}

func (s *SessionScreen) answer(value store.Response) tea.Cmd {
	p := s.sched.PendingResponse()
	if p == nil {
		return nil
	}
	cmd := s.respond(p, value)
	if s.sched.IsComplete() {
		return tea.Batch(cmd, func() tea.Msg { return sessionEndMsg{} })
	}
	return cmd
}

// handleSessionEnd stops ticking and waits for in-flight saves so the summary
// reads today's progress after the last response has landed.
func (s *SessionScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	if s.ending {
		return s, nil
	}
	s.ending = true
	s.nowMs = clock.Millis(s.clock.Now())
	if s.inFlight > 0 {
		return s, nil
	}
	return s, s.finish()
}

func (s *SessionScreen) finish() tea.Cmd {
	s.done = true
	sum := sess.BuildSummary(s.id, s.sched, s.nowMs, s.unpersisted)
	s.log.Info("session finished",
		zap.Int("presented", sum.Presented),
		zap.Int("yes", sum.Yes),
		zap.Int("no", sum.No),
		zap.Int("no_response", sum.NoResponse),
		zap.Int("unpersisted", sum.Unpersisted))

	loader, user, skills := s.loader, s.user, s.skills
	date := store.FormatDate(s.clock.Now())
	return func() tea.Msg {
		daily := loader.LoadDay(context.Background(), user, date, skills)
		return router.ReplaceScreenMsg{Screen: summary.New(sum, daily)}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
