package session

import (
	"math"

	"github.com/abhisek/skillcoach/internal/roster"
)

// Build turns an ordered roster into a presentation schedule. Slice order is
// authoritative; SelectedSkill.Order is not consulted. Invalid durations
// (NaN, negative) are treated as zero wait. Offsets saturate at MaxInt64.
func Build(skills []roster.SelectedSkill) []*Event {
	events := make([]*Event, 0, len(skills))
	var acc int64
	for i, s := range skills {
		acc = addSaturating(acc, s.WaitMillis())
		var next int64
		if i+1 < len(skills) {
			next = skills[i+1].WaitMillis()
		}
		events = append(events, &Event{
			SkillID:           s.SkillID,
			SkillName:         s.DisplayName(),
			ScheduledOffsetMs: acc,
			IntervalToNextMs:  next,
		})
	}
	return events
}

func addSaturating(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}
