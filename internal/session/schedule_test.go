package session

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcoach/internal/roster"
)

func skills(pairs ...any) []roster.SelectedSkill {
	var out []roster.SelectedSkill
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, roster.SelectedSkill{
			SkillID:         pairs[i].(string),
			Order:           i/2 + 1,
			DurationMinutes: pairs[i+1].(float64),
		})
	}
	return out
}

func TestBuild_CumulativeOffsets(t *testing.T) {
	events := Build(skills("s1", 1.0, "s2", 2.0))
	require.Len(t, events, 2)

	assert.Equal(t, "s1", events[0].SkillID)
	assert.Equal(t, int64(60000), events[0].ScheduledOffsetMs)
	assert.Equal(t, int64(120000), events[0].IntervalToNextMs)

	assert.Equal(t, "s2", events[1].SkillID)
	assert.Equal(t, int64(180000), events[1].ScheduledOffsetMs)
	assert.Equal(t, int64(0), events[1].IntervalToNextMs)
}

func TestBuild_Empty(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]roster.SelectedSkill{}))
}

func TestBuild_ZeroDuration(t *testing.T) {
	events := Build(skills("a", 0.0, "b", 2.0, "c", 0.0))
	require.Len(t, events, 3)
	assert.Equal(t, int64(0), events[0].ScheduledOffsetMs, "zero-wait first skill is due at start")
	assert.Equal(t, int64(120000), events[1].ScheduledOffsetMs)
	assert.Equal(t, int64(120000), events[2].ScheduledOffsetMs, "zero-wait shares previous offset")
	assert.Equal(t, int64(0), events[1].IntervalToNextMs)
}

func TestBuild_InvalidDurationsTreatedAsZero(t *testing.T) {
	events := Build(skills("a", 1.0, "b", math.NaN(), "c", -5.0, "d", 1.0))
	require.Len(t, events, 4)
	assert.Equal(t, int64(60000), events[1].ScheduledOffsetMs)
	assert.Equal(t, int64(60000), events[2].ScheduledOffsetMs)
	assert.Equal(t, int64(120000), events[3].ScheduledOffsetMs)
	assert.Equal(t, int64(0), events[0].IntervalToNextMs)
}

func TestBuild_IgnoresOrderField(t *testing.T) {
	in := []roster.SelectedSkill{
		{SkillID: "late", Order: 2, DurationMinutes: 1},
		{SkillID: "early", Order: 1, DurationMinutes: 1},
	}
	events := Build(in)
	assert.Equal(t, "late", events[0].SkillID)
	assert.Equal(t, "early", events[1].SkillID)
}

func TestBuild_Monotonic(t *testing.T) {
	durations := []float64{3, 0, 0.25, 7, -1, 0, 12.5, math.NaN(), 1}
	var in []roster.SelectedSkill
	for i, d := range durations {
		in = append(in, roster.SelectedSkill{SkillID: string(rune('a' + i)), DurationMinutes: d})
	}
	events := Build(in)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].ScheduledOffsetMs, events[i-1].ScheduledOffsetMs,
			"offset %d decreased", i)
		assert.Equal(t, events[i].ScheduledOffsetMs-events[i-1].ScheduledOffsetMs, events[i-1].IntervalToNextMs)
	}
}

func TestBuild_SkillNameFallsBackToID(t *testing.T) {
	events := Build([]roster.SelectedSkill{
		{SkillID: "a", Name: "Ask for help", DurationMinutes: 1},
		{SkillID: "b", DurationMinutes: 1},
	})
	assert.Equal(t, "Ask for help", events[0].SkillName)
	assert.Equal(t, "b", events[1].SkillName)
}

func TestBuild_HugeDurationsStayMonotonic(t *testing.T) {
	events := Build(skills("a", 1.0, "b", 1e300, "c", 1.6e14, "d", 1.6e14))
	require.Len(t, events, 4)

	capMs := int64(roster.MaxDurationMinutes * 60000)
	assert.Equal(t, int64(60000), events[0].ScheduledOffsetMs)
	assert.Equal(t, capMs, events[0].IntervalToNextMs)
	for i, e := range events {
		assert.GreaterOrEqual(t, e.IntervalToNextMs, int64(0), "interval at %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, e.ScheduledOffsetMs, events[i-1].ScheduledOffsetMs, "offset at %d", i)
		}
	}
	assert.Equal(t, 60000+3*capMs, events[3].ScheduledOffsetMs)
}

func TestAddSaturating(t *testing.T) {
	assert.Equal(t, int64(5), addSaturating(2, 3))
	assert.Equal(t, int64(math.MaxInt64), addSaturating(math.MaxInt64-1, 10))
}
