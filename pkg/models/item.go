package models

import "time"

// Item is a single flashcard or translation prompt inside a session.
// Content fields are fixed at creation; History is append-only during play
// and only undo may remove its most recent entry. IsFlagged is a learner
// toggle independent of history.
type Item struct {
	ItemID    string    `json:"item_id"`
	Prompt    string    `json:"prompt"`
	Rubric    string    `json:"rubric,omitempty"` // expected answer or grading rubric, opaque to the engine
	VocabID   string    `json:"vocab_id,omitempty"`
	IsFlagged bool      `json:"is_flagged"`
	History   []Attempt `json:"history"`
}

// Attempt records one graded response to an item.
type Attempt struct {
	AttemptID       string    `json:"attempt_id"`
	Answer          string    `json:"answer,omitempty"`
	Correct         bool      `json:"correct"`
	Score           float64   `json:"score"` // in [0, 1]
	ErrorTags       []string  `json:"error_tags,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	AnsweredAt      time.Time `json:"answered_at"`
}

// Outcome is a learner's response to one item, as judged by the caller.
// The engine treats Answer and ErrorTags as opaque.
type Outcome struct {
	Answer          string
	Correct         bool
	Score           float64 // in [0, 1]; clamped by the engine
	ErrorTags       []string
	DurationSeconds float64
}

// LastAttempt returns the most recent history entry, or nil for an
// unanswered item.
func (it *Item) LastAttempt() *Attempt {
	if len(it.History) == 0 {
		return nil
	}
	return &it.History[len(it.History)-1]
}

// Clone returns a deep copy of the item and its history.
func (it Item) Clone() Item {
	out := it
	out.History = make([]Attempt, len(it.History))
	for i, a := range it.History {
		out.History[i] = a.clone()
	}
	return out
}

func (a Attempt) clone() Attempt {
	out := a
	if a.ErrorTags != nil {
		out.ErrorTags = append([]string(nil), a.ErrorTags...)
	}
	return out
}
