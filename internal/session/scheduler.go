package session

import (
	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/clock"
	"github.com/abhisek/skillcoach/internal/logging"
	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/store"
)

// State is the lifecycle state of a session.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	default:
		return "not-started"
	}
}

// Scheduler tracks a session's progress against its schedule. It is driven by
// a single external timer loop and does no locking of its own. Calls with an
// unknown skill id are logged and ignored so a late or duplicate driver call
// never aborts a session.
type Scheduler struct {
	events   []*Event
	clock    clock.Clock
	log      *zap.Logger
	anchorMs int64
	started  bool
}

// NewScheduler wraps a built schedule. A nil clock uses the system clock and a
// nil logger discards output.
func NewScheduler(events []*Event, clk clock.Clock, log *zap.Logger) *Scheduler {
	if clk == nil {
		clk = clock.System{}
	}
	return &Scheduler{
		events: events,
		clock:  clk,
		log:    logging.OrNop(log),
	}
}

// NewFromRoster builds the schedule for skills and wraps it in a Scheduler.
func NewFromRoster(skills []roster.SelectedSkill, clk clock.Clock, log *zap.Logger) *Scheduler {
	return NewScheduler(Build(skills), clk, log)
}

// Start anchors the session to the current time. A second call keeps the
// original anchor and returns it.
func (s *Scheduler) Start() int64 {
	if s.started {
		s.log.Warn("double start ignored", zap.Int64("anchor_ms", s.anchorMs))
		return s.anchorMs
	}
	s.anchorMs = s.nowMs()
	s.started = true
	s.log.Debug("session started",
		zap.Int64("anchor_ms", s.anchorMs),
		zap.Int("events", len(s.events)))
	return s.anchorMs
}

// Anchor returns the session start time in epoch ms (0 before Start).
func (s *Scheduler) Anchor() int64 {
	return s.anchorMs
}

// ElapsedMs returns time since the anchor, or 0 before Start.
func (s *Scheduler) ElapsedMs(nowMs int64) int64 {
	if !s.started {
		return 0
	}
	return nowMs - s.anchorMs
}

// State derives the lifecycle state; Complete is never stored.
func (s *Scheduler) State() State {
	if !s.started {
		return StateNotStarted
	}
	if s.IsComplete() {
		return StateComplete
	}
	return StateRunning
}

// DueEvent returns the first unpresented event whose offset has elapsed at
// nowMs, or nil. Simultaneously due events come back one per call, in
// schedule order, as each is marked presented.
func (s *Scheduler) DueEvent(nowMs int64) *Event {
	if !s.started {
		return nil
	}
	elapsed := nowMs - s.anchorMs
	for _, e := range s.events {
		if e.Presented() {
			continue
		}
		if e.ScheduledOffsetMs <= elapsed {
			return e
		}
	}
	return nil
}

// MarkPresented stamps the first unpresented event for skillID.
func (s *Scheduler) MarkPresented(skillID string) {
	e := s.firstUnpresented(skillID)
	if e == nil {
		if s.find(skillID) == nil {
			s.log.Warn("mark presented: unknown skill", zap.String("skill_id", skillID))
		} else {
			s.log.Warn("mark presented: already presented", zap.String("skill_id", skillID))
		}
		return
	}
	now := s.nowMs()
	e.PresentedAtMs = &now
	s.log.Debug("skill presented",
		zap.String("skill_id", skillID),
		zap.Int64("scheduled_offset_ms", e.ScheduledOffsetMs),
		zap.Int64("late_ms", s.ElapsedMs(now)-e.ScheduledOffsetMs))
}

// RecordResponse stores value on the event for skillID whether or not it has
// been presented. For a skill listed more than once, the most recently
// presented occurrence receives the response.
func (s *Scheduler) RecordResponse(skillID string, value store.Response) {
	if !value.Valid() {
		s.log.Warn("record response: invalid value",
			zap.String("skill_id", skillID),
			zap.String("response", string(value)))
		return
	}
	e := s.lastPresented(skillID)
	if e == nil {
		e = s.find(skillID)
	}
	if e == nil {
		s.log.Warn("record response: unknown skill", zap.String("skill_id", skillID))
		return
	}
	now := s.nowMs()
	e.Response = value
	e.RespondedAtMs = &now
	s.log.Debug("response recorded",
		zap.String("skill_id", skillID),
		zap.String("response", string(value)))
}

// TimeUntilNext returns the wait until the next unpresented event, clamped at
// zero. ok is false before Start or when every event has been presented.
func (s *Scheduler) TimeUntilNext(nowMs int64) (ms int64, ok bool) {
	if !s.started {
		return 0, false
	}
	for _, e := range s.events {
		if e.Presented() {
			continue
		}
		wait := e.ScheduledOffsetMs - (nowMs - s.anchorMs)
		if wait < 0 {
			wait = 0
		}
		return wait, true
	}
	return 0, false
}

// IsComplete reports whether every event has been presented. Responses are
// not required: a skill can be shown and time out unanswered.
func (s *Scheduler) IsComplete() bool {
	for _, e := range s.events {
		if !e.Presented() {
			return false
		}
	}
	return true
}

// PendingResponse returns the most recently presented event that has no
// response yet, or nil.
func (s *Scheduler) PendingResponse() *Event {
	var pending *Event
	for _, e := range s.events {
		if e.Presented() && !e.Responded() {
			if pending == nil || *e.PresentedAtMs >= *pending.PresentedAtMs {
				pending = e
			}
		}
	}
	return pending
}

// Events returns a copy of the schedule for rendering.
func (s *Scheduler) Events() []Event {
	out := make([]Event, len(s.events))
	for i, e := range s.events {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of scheduled events.
func (s *Scheduler) Len() int {
	return len(s.events)
}

// PresentedCount returns how many events have been shown.
func (s *Scheduler) PresentedCount() int {
	n := 0
	for _, e := range s.events {
		if e.Presented() {
			n++
		}
	}
	return n
}

func (s *Scheduler) find(skillID string) *Event {
	for _, e := range s.events {
		if e.SkillID == skillID {
			return e
		}
	}
	return nil
}

func (s *Scheduler) firstUnpresented(skillID string) *Event {
	for _, e := range s.events {
		if e.SkillID == skillID && !e.Presented() {
			return e
		}
	}
	return nil
}

func (s *Scheduler) lastPresented(skillID string) *Event {
	var last *Event
	for _, e := range s.events {
		if e.SkillID == skillID && e.Presented() {
			last = e
		}
	}
	return last
}

func (s *Scheduler) nowMs() int64 {
	return clock.Millis(s.clock.Now())
}
