package session

import "github.com/abhisek/skillcoach/internal/store"

// Event is one skill presentation in a session schedule. ScheduledOffsetMs is
// the cumulative wait from session start; a skill's own duration is the wait
// before it is shown, not after.
type Event struct {
	SkillID           string
	SkillName         string
	ScheduledOffsetMs int64
	IntervalToNextMs  int64

	PresentedAtMs *int64
	Response      store.Response
	RespondedAtMs *int64
}

// Presented reports whether the event has been shown to the student.
func (e *Event) Presented() bool {
	return e.PresentedAtMs != nil
}

// Responded reports whether a response has been recorded for the event.
func (e *Event) Responded() bool {
	return e.RespondedAtMs != nil
}

func (e *Event) clone() Event {
	c := *e
	if e.PresentedAtMs != nil {
		v := *e.PresentedAtMs
		c.PresentedAtMs = &v
	}
	if e.RespondedAtMs != nil {
		v := *e.RespondedAtMs
		c.RespondedAtMs = &v
	}
	return c
}
