package session

import (
	"time"

	"github.com/abhisek/skillcoach/internal/store"
)

// tickMsg is sent every TickInterval to poll the scheduler.
type tickMsg time.Time

// responseSavedMsg reports the outcome of persisting one response.
type responseSavedMsg struct {
	Record store.Record
	Err    error
}

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}
