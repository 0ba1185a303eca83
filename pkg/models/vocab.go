package models

import "time"

// SchedulerState is the spaced-repetition bookkeeping for one vocabulary
// entry. It is owned by the vocabulary store, not by any single session:
// the same entry accumulates state across every session that reviews it.
type SchedulerState struct {
	Streak         int        `json:"streak" db:"streak"`
	IntervalHours  float64    `json:"interval_hours" db:"interval_hours"`
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`
	DueAt          time.Time  `json:"due_at" db:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"` // nil before first review
}

// IsDue reports whether the entry should be offered for review at the
// given time.
func (s SchedulerState) IsDue(now time.Time) bool {
	return !s.DueAt.After(now)
}

// Clone returns a copy with pointer fields copied by value.
func (s SchedulerState) Clone() SchedulerState {
	out := s
	if s.LastReviewedAt != nil {
		v := *s.LastReviewedAt
		out.LastReviewedAt = &v
	}
	return out
}

// Tally is a correct/incorrect counter pair for one activity kind.
type Tally struct {
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	LastAttemptAt  *time.Time `json:"last_attempt_at"`
}

// Total returns the number of recorded attempts.
func (t Tally) Total() int {
	return t.CorrectCount + t.IncorrectCount
}

// Accuracy returns the correct share of recorded attempts; 0 when empty.
func (t Tally) Accuracy() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.CorrectCount) / float64(total)
}

func (t Tally) clone() Tally {
	out := t
	if t.LastAttemptAt != nil {
		v := *t.LastAttemptAt
		out.LastAttemptAt = &v
	}
	return out
}

// Performance holds the per-entry tallies, split by activity so mastery is
// estimable for each direction even without full scheduling history.
type Performance struct {
	Recognition Tally `json:"recognition"`
	Production  Tally `json:"production"`
}

// ForActivity returns the tally for the given activity kind.
func (p *Performance) ForActivity(kind Activity) *Tally {
	if kind == Production {
		return &p.Production
	}
	return &p.Recognition
}

// Clone returns a copy with pointer fields copied by value.
func (p Performance) Clone() Performance {
	return Performance{
		Recognition: p.Recognition.clone(),
		Production:  p.Production.clone(),
	}
}
