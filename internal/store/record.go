package store

import (
	"fmt"
	"sort"
	"time"
)

// Response is a student's outcome for one skill presentation.
type Response string

const (
	ResponseYes  Response = "yes"
	ResponseNo   Response = "no"
	ResponseNone Response = "no-response"
)

// Valid reports whether r is one of the known response values.
func (r Response) Valid() bool {
	switch r {
	case ResponseYes, ResponseNo, ResponseNone:
		return true
	}
	return false
}

// ParseResponse maps user input ("y", "yes", "n", "none", ...) to a Response.
func ParseResponse(s string) (Response, error) {
	switch s {
	case "y", "yes":
		return ResponseYes, nil
	case "n", "no":
		return ResponseNo, nil
	case "-", "none", "no-response", "noresponse":
		return ResponseNone, nil
	}
	return "", fmt.Errorf("unknown response %q (want yes, no or no-response)", s)
}

// DateFormat is the layout of Record.SessionDate.
const DateFormat = "2006-01-02"

// Record is one persisted skill response. Field names are part of the
// storage contract shared by every backend.
type Record struct {
	UserID      string   `json:"userId"`
	SessionDate string   `json:"sessionDate"`
	SkillID     string   `json:"skillId"`
	SkillName   string   `json:"skillName"`
	Response    Response `json:"response"`
	TimestampMs int64    `json:"timestamp"`
}

// NewRecord builds a record stamped at t, dated by t's local calendar day.
func NewRecord(userID, skillID, skillName string, value Response, t time.Time) Record {
	return Record{
		UserID:      userID,
		SessionDate: FormatDate(t),
		SkillID:     skillID,
		SkillName:   skillName,
		Response:    value,
		TimestampMs: t.UnixMilli(),
	}
}

// FormatDate renders t's calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a YYYY-MM-DD date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// ValidateRecord checks the fields every backend relies on.
func ValidateRecord(r Record) error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRecord)
	}
	if r.SkillID == "" {
		return fmt.Errorf("%w: skill id is required", ErrInvalidRecord)
	}
	if _, err := time.Parse(DateFormat, r.SessionDate); err != nil {
		return fmt.Errorf("%w: session date %q", ErrInvalidRecord, r.SessionDate)
	}
	if !r.Response.Valid() {
		return fmt.Errorf("%w: response %q", ErrInvalidRecord, r.Response)
	}
	return nil
}

// SortByTimestamp orders records by timestamp, keeping insertion order for ties.
func SortByTimestamp(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TimestampMs < records[j].TimestampMs
	})
}
