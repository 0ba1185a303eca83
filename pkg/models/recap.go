package models

import "time"

// DueEntry is one vocabulary entry whose scheduler state changed during a
// session, paired with its next due time.
type DueEntry struct {
	VocabID string    `json:"vocab_id"`
	DueAt   time.Time `json:"due_at"`
}

// Recap is the end-of-session summary. It is built exactly once, when the
// session completes, and cleared again if undo rolls back the final item.
type Recap struct {
	Accuracy                float64    `json:"accuracy"` // in [0, 1]
	PerItemDurationsSeconds []float64  `json:"per_item_durations_seconds"`
	RecommendedActions      []string   `json:"recommended_actions"`
	DueQueue                []DueEntry `json:"due_queue"`
}

// Clone returns a deep copy of the recap; nil stays nil.
func (r *Recap) Clone() *Recap {
	if r == nil {
		return nil
	}
	out := *r
	out.PerItemDurationsSeconds = append([]float64(nil), r.PerItemDurationsSeconds...)
	out.RecommendedActions = append([]string(nil), r.RecommendedActions...)
	out.DueQueue = append([]DueEntry(nil), r.DueQueue...)
	return &out
}
