package models

import "time"

// Word is a word-bank record: the vocabulary content sessions draw on.
// The engine reads words only to build item content; creating and editing
// them is plumbing (importer, app screens).
type Word struct {
	ID          string    `json:"id" db:"id"`
	Term        string    `json:"term" db:"term"`
	Translation string    `json:"translation" db:"translation"`
	Topic       string    `json:"topic" db:"topic"`
	Difficulty  int       `json:"difficulty" db:"difficulty"` // 1-5 scale
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PoolEntry pairs a word with its scheduler state for session selection.
// State is nil for words the learner has never reviewed.
type PoolEntry struct {
	Word  Word
	State *SchedulerState
}

// Seen reports whether the entry has scheduler history.
func (e PoolEntry) Seen() bool {
	return e.State != nil
}
