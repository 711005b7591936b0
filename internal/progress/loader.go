package progress

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/logging"
	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/store"
)

// Loader reads response records and summarizes them. Query failures are
// treated as "no data" so the report renders zeros instead of failing.
type Loader struct {
	store store.ResponseStore
	log   *zap.Logger
}

// NewLoader creates a Loader over st.
func NewLoader(st store.ResponseStore, log *zap.Logger) *Loader {
	return &Loader{store: st, log: logging.OrNop(log)}
}

// Records returns the user's records for date, or nil if the query fails.
func (l *Loader) Records(ctx context.Context, userID, date string) []store.Record {
	if l.store == nil {
		return nil
	}
	records, err := l.store.QueryByDate(ctx, userID, date)
	if err != nil {
		l.log.Warn("response query failed; treating as empty",
			zap.String("user_id", userID),
			zap.String("date", date),
			zap.Error(err))
		return nil
	}
	return records
}

// LoadDay summarizes a single date.
func (l *Loader) LoadDay(ctx context.Context, userID, date string, skills []roster.SelectedSkill) DailyProgress {
	return SummarizeDay(date, l.Records(ctx, userID, date), skills)
}

// LoadRange summarizes every date from..to inclusive, one query per date.
func (l *Loader) LoadRange(ctx context.Context, userID string, from, to time.Time, skills []roster.SelectedSkill) []DailyProgress {
	dates := Dates(from, to)
	days := make([]DailyProgress, 0, len(dates))
	for _, d := range dates {
		if ctx.Err() != nil {
			break
		}
		days = append(days, l.LoadDay(ctx, userID, d, skills))
	}
	return days
}

// Report is a period's daily rows plus its rollup.
type Report struct {
	UserID  string          `json:"userId"`
	Period  Period          `json:"period"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Days    []DailyProgress `json:"days"`
	Summary RangeSummary    `json:"summary"`
}

// LoadReport builds the report for the period ending on end. The rollup
// covers only days with recorded responses.
func (l *Loader) LoadReport(ctx context.Context, userID string, period Period, end time.Time, skills []roster.SelectedSkill) (*Report, error) {
	from, to, err := period.Window(end)
	if err != nil {
		return nil, err
	}
	days := l.LoadRange(ctx, userID, from, to, skills)
	return &Report{
		UserID:  userID,
		Period:  period,
		From:    store.FormatDate(from),
		To:      store.FormatDate(to),
		Days:    days,
		Summary: SummarizeRange(DaysWithData(days)),
	}, nil
}
