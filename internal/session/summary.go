package session

import (
	"time"

	"github.com/abhisek/skillcoach/internal/store"
)

// SessionSummary holds the in-memory outcome of one session, shown when the
// driver finishes even if persistence was degraded.
type SessionSummary struct {
	SessionID   string
	Duration    time.Duration
	Scheduled   int
	Presented   int
	Yes         int
	No          int
	NoResponse  int
	Unanswered  int
	Unpersisted int
}

// BuildSummary tallies the scheduler's events as of nowMs.
func BuildSummary(sessionID string, s *Scheduler, nowMs int64, unpersisted int) *SessionSummary {
	sum := &SessionSummary{
		SessionID:   sessionID,
		Duration:    time.Duration(s.ElapsedMs(nowMs)) * time.Millisecond,
		Scheduled:   s.Len(),
		Unpersisted: unpersisted,
	}
	for _, e := range s.events {
		if e.Presented() {
			sum.Presented++
		}
		switch e.Response {
		case store.ResponseYes:
			sum.Yes++
		case store.ResponseNo:
			sum.No++
		case store.ResponseNone:
			sum.NoResponse++
		default:
			if e.Presented() {
				sum.Unanswered++
			}
		}
	}
	return sum
}
