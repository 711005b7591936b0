package roster

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// SelectedSkill is one entry of the student's roster. Order is advisory
// metadata; the position in the Roster slice decides presentation order.
type SelectedSkill struct {
	SkillID         string  `json:"skillId"`
	Name            string  `json:"name,omitempty"`
	Order           int     `json:"order"`
	DurationMinutes float64 `json:"durationMinutes"`
}

// DisplayName returns the skill name, falling back to its id.
func (s SelectedSkill) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.SkillID
}

// Roster limits. A wait longer than a week is not a session wait.
const (
	MaxDurationMinutes = 7 * 24 * 60
	MaxNameLength      = 200
)

// WaitMillis returns the wait before this skill in milliseconds.
// NaN, infinite and negative durations count as zero wait; durations above
// MaxDurationMinutes are capped.
func (s SelectedSkill) WaitMillis() int64 {
	d := s.DurationMinutes
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	if d > MaxDurationMinutes {
		d = MaxDurationMinutes
	}
	return int64(d * 60000)
}

// Roster is the ordered set of skills configured for a session.
type Roster struct {
	Version int             `json:"version"`
	Skills  []SelectedSkill `json:"skills"`
}

// CurrentVersion is the roster file format version written by Save.
const CurrentVersion = 1

// Len returns the number of skills on the roster.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Skills)
}

// Snapshot returns a copy of the skills, safe to hand to a session.
func (r *Roster) Snapshot() []SelectedSkill {
	if r == nil {
		return nil
	}
	out := make([]SelectedSkill, len(r.Skills))
	copy(out, r.Skills)
	return out
}

// Index returns the position of skillID, or -1.
func (r *Roster) Index(skillID string) int {
	for i, s := range r.Skills {
		if s.SkillID == skillID {
			return i
		}
	}
	return -1
}

// Add appends a skill. Duplicate ids are rejected.
func (r *Roster) Add(s SelectedSkill) error {
	if s.SkillID == "" {
		return fmt.Errorf("skill id is required")
	}
	if r.Index(s.SkillID) >= 0 {
		return fmt.Errorf("skill %q is already on the roster", s.SkillID)
	}
	if s.DurationMinutes < 0 || math.IsNaN(s.DurationMinutes) || s.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("skill %q: duration must be between 0 and %d minutes", s.SkillID, MaxDurationMinutes)
	}
	if utf8.RuneCountInString(s.Name) > MaxNameLength {
		return fmt.Errorf("skill %q: name is longer than %d characters", s.SkillID, MaxNameLength)
	}
	r.Skills = append(r.Skills, s)
	r.Renumber()
	return nil
}

// Remove drops skillID from the roster.
func (r *Roster) Remove(skillID string) error {
	i := r.Index(skillID)
	if i < 0 {
		return fmt.Errorf("skill %q is not on the roster", skillID)
	}
	r.Skills = append(r.Skills[:i], r.Skills[i+1:]...)
	r.Renumber()
	return nil
}

// Move relocates skillID to the zero-based position to, clamped to the roster bounds.
func (r *Roster) Move(skillID string, to int) error {
	i := r.Index(skillID)
	if i < 0 {
		return fmt.Errorf("skill %q is not on the roster", skillID)
	}
	if to < 0 {
		to = 0
	}
	if to >= len(r.Skills) {
		to = len(r.Skills) - 1
	}
	s := r.Skills[i]
	r.Skills = append(r.Skills[:i], r.Skills[i+1:]...)
	r.Skills = append(r.Skills[:to], append([]SelectedSkill{s}, r.Skills[to:]...)...)
	r.Renumber()
	return nil
}

// Renumber rewrites Order to match slice position (1-based).
func (r *Roster) Renumber() {
	for i := range r.Skills {
		r.Skills[i].Order = i + 1
	}
}

// TotalWaitMillis is the full session length implied by the roster.
func (r *Roster) TotalWaitMillis() int64 {
	var total int64
	for _, s := range r.Skills {
		total += s.WaitMillis()
	}
	return total
}
