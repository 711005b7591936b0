package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/skillcoach/internal/clock"
	"github.com/abhisek/skillcoach/internal/session"
	"github.com/abhisek/skillcoach/internal/store"
)

// failingStore returns an error from every query.
type failingStore struct {
	store.Memory
	queries int
}

func (f *failingStore) QueryByDate(_ context.Context, _, _ string) ([]store.Record, error) {
	f.queries++
	return nil, errors.New("disk on fire")
}

func openMemory(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	require.NoError(t, m.Init(context.Background()))
	return m
}

func TestLoader_RoundTripThroughScheduler(t *testing.T) {
	ctx := context.Background()
	st := openMemory(t)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	clk := clock.NewFake(start)
	skills := rosterOf("s1", "s2")

	sched := session.NewFromRoster(skills, clk, nil)
	sched.Start()

	for _, resp := range []store.Response{store.ResponseYes, store.ResponseNo} {
		clk.Advance(time.Minute)
		due := sched.DueEvent(clk.Now().UnixMilli())
		require.NotNil(t, due)
		sched.MarkPresented(due.SkillID)
		sched.RecordResponse(due.SkillID, resp)
		require.NoError(t, st.Save(ctx, store.NewRecord("u1", due.SkillID, due.SkillName, resp, clk.Now())))
	}

	loader := NewLoader(st, nil)
	date := store.FormatDate(start)
	records := loader.Records(ctx, "u1", date)
	require.Len(t, records, 2)

	latest := Latest(records)
	for _, ev := range sched.Events() {
		assert.Equal(t, ev.Response, latest[ev.SkillID], "skill %s", ev.SkillID)
	}

	dp := loader.LoadDay(ctx, "u1", date, skills)
	assert.Equal(t, 50, dp.SuccessRate)
	assert.Equal(t, 1, dp.YesResponses)
	assert.Equal(t, 1, dp.NoResponses)
}

func TestLoader_FailsClosed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fs := &failingStore{}
	loader := NewLoader(fs, zap.New(core))

	dp := loader.LoadDay(context.Background(), "u1", "2025-03-10", rosterOf("a"))
	assert.Equal(t, 0, dp.SuccessRate)
	assert.False(t, dp.HasData())
	assert.Equal(t, 1, logs.Len())
}

func TestLoader_UninitializedStoreFailsClosed(t *testing.T) {
	loader := NewLoader(store.NewMemory(), nil)
	assert.Empty(t, loader.Records(context.Background(), "u1", "2025-03-10"))

	var nilLoader = NewLoader(nil, nil)
	assert.Empty(t, nilLoader.Records(context.Background(), "u1", "2025-03-10"))
}

func TestLoader_LoadRangeQueriesEachDate(t *testing.T) {
	fs := &failingStore{}
	loader := NewLoader(fs, nil)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, 3, 7, 15, 0, 0, 0, time.Local)

	days := loader.LoadRange(context.Background(), "u1", from, to, nil)
	assert.Len(t, days, 7)
	assert.Equal(t, 7, fs.queries)
	assert.Equal(t, "2025-03-01", days[0].Date)
	assert.Equal(t, "2025-03-07", days[6].Date)
}

func TestLoader_LoadReport(t *testing.T) {
	ctx := context.Background()
	st := openMemory(t)
	skills := rosterOf("a", "b")

	save := func(date time.Time, skill string, resp store.Response) {
		require.NoError(t, st.Save(ctx, store.NewRecord("u1", skill, skill, resp, date)))
	}
	d1 := time.Date(2025, 3, 4, 10, 0, 0, 0, time.Local)
	d2 := time.Date(2025, 3, 6, 10, 0, 0, 0, time.Local)
	save(d1, "a", store.ResponseYes)
	save(d1, "b", store.ResponseNo)
	save(d2, "a", store.ResponseYes)
	save(d2.Add(time.Minute), "b", store.ResponseYes)

	loader := NewLoader(st, nil)
	rep, err := loader.LoadReport(ctx, "u1", PeriodWeek, time.Date(2025, 3, 7, 20, 0, 0, 0, time.Local), skills)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", rep.From)
	assert.Equal(t, "2025-03-07", rep.To)
	assert.Len(t, rep.Days, 7)
	assert.Equal(t, 2, rep.Summary.Days)
	assert.Equal(t, 75, rep.Summary.AvgSuccessRate)
	assert.Equal(t, 50, rep.Summary.Improvement)

	_, err = loader.LoadReport(ctx, "u1", Period("year"), time.Now(), skills)
	assert.Error(t, err)
}
