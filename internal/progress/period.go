package progress

import (
	"fmt"
	"time"

	"github.com/abhisek/skillcoach/internal/store"
)

// Period names a reporting window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Days returns the window length in calendar days.
func (p Period) Days() (int, error) {
	switch p {
	case PeriodDay:
		return 1, nil
	case PeriodWeek:
		return 7, nil
	case PeriodMonth:
		return 30, nil
	}
	return 0, fmt.Errorf("unknown period %q (want day, week or month)", p)
}

// Window returns the inclusive first and last dates of the period ending on end.
func (p Period) Window(end time.Time) (from, to time.Time, err error) {
	n, err := p.Days()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to = startOfDay(end)
	from = to.AddDate(0, 0, -(n - 1))
	return from, to, nil
}

// Dates lists every calendar date from..to inclusive as YYYY-MM-DD.
// AddDate keeps the walk on calendar days across DST changes.
func Dates(from, to time.Time) []string {
	from, to = startOfDay(from), startOfDay(to)
	var out []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, store.FormatDate(d))
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
