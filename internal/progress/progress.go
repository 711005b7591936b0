package progress

import (
	"math"

	"github.com/abhisek/skillcoach/internal/roster"
	"github.com/abhisek/skillcoach/internal/store"
)

// DailyProgress is one day's derived summary. It is recomputed from raw
// records and the current roster on every request and never stored.
type DailyProgress struct {
	Date            string `json:"date"`
	TotalSkills     int    `json:"totalSkills"`
	CompletedSkills int    `json:"completedSkills"`
	YesResponses    int    `json:"yesResponses"`
	NoResponses     int    `json:"noResponses"`
	NoResponseCount int    `json:"noResponseCount"`
	SuccessRate     int    `json:"successRate"`
}

// HasData reports whether any response was recorded that day.
func (d DailyProgress) HasData() bool {
	return d.YesResponses+d.NoResponses+d.NoResponseCount > 0
}

// RangeSummary rolls several days into an average and a first-to-last delta.
type RangeSummary struct {
	Days           int `json:"days"`
	AvgSuccessRate int `json:"avgSuccessRate"`
	Improvement    int `json:"improvement"`
}

// Latest reduces records to the most recent response per skill. Records are
// ordered by timestamp first (stable), so later entries overwrite earlier ones
// regardless of the order the backend returned them in.
func Latest(records []store.Record) map[string]store.Response {
	sorted := make([]store.Record, len(records))
	copy(sorted, records)
	store.SortByTimestamp(sorted)

	latest := make(map[string]store.Response, len(sorted))
	for _, r := range sorted {
		latest[r.SkillID] = r.Response
	}
	return latest
}

// SummarizeDay folds one day's records against the roster.
//
// With a non-empty roster the rate is the share of roster skills whose latest
// response is yes, and it is exactly 100 when every roster skill's latest
// response is yes. A roster skill with no response at all counts against the
// rate; it does not qualify for the 100% case. With an empty roster the rate
// falls back to yes over all reduced responses.
func SummarizeDay(date string, records []store.Record, skills []roster.SelectedSkill) DailyProgress {
	latest := Latest(records)

	dp := DailyProgress{Date: date}
	for _, resp := range latest {
		switch resp {
		case store.ResponseYes:
			dp.YesResponses++
		case store.ResponseNo:
			dp.NoResponses++
		case store.ResponseNone:
			dp.NoResponseCount++
		}
	}

	if len(skills) > 0 {
		dp.TotalSkills = len(skills)
		allYes := true
		rosterYes := 0
		for _, s := range skills {
			resp, ok := latest[s.SkillID]
			if ok {
				dp.CompletedSkills++
			}
			if resp == store.ResponseYes {
				rosterYes++
			} else {
				allYes = false
			}
		}
		if allYes {
			dp.SuccessRate = 100
		} else {
			dp.SuccessRate = percent(rosterYes, len(skills))
		}
	} else {
		dp.TotalSkills = len(latest)
		dp.CompletedSkills = len(latest)
		total := dp.YesResponses + dp.NoResponses + dp.NoResponseCount
		if total > 0 {
			dp.SuccessRate = percent(dp.YesResponses, total)
		}
	}

	dp.SuccessRate = clamp(dp.SuccessRate, 0, 100)
	return dp
}

// SummarizeRange averages the daily rates and reports last minus first.
func SummarizeRange(days []DailyProgress) RangeSummary {
	if len(days) == 0 {
		return RangeSummary{}
	}
	sum := 0
	for _, d := range days {
		sum += d.SuccessRate
	}
	rs := RangeSummary{
		Days:           len(days),
		AvgSuccessRate: roundHalfUp(float64(sum) / float64(len(days))),
	}
	if len(days) >= 2 {
		rs.Improvement = days[len(days)-1].SuccessRate - days[0].SuccessRate
	}
	return rs
}

// DaysWithData keeps only days on which a response was recorded.
func DaysWithData(days []DailyProgress) []DailyProgress {
	var out []DailyProgress
	for _, d := range days {
		if d.HasData() {
			out = append(out, d)
		}
	}
	return out
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return roundHalfUp(100 * float64(part) / float64(whole))
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
