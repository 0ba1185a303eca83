// Package review derives outcome tallies and end-of-session recaps from
// graded item history. Everything here is a total function over its inputs:
// no storage, no clock, no mutation.
package review

import (
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Accuracy thresholds driving recap recommendations.
const (
	repeatBelow  = 0.6
	advanceAbove = 0.9
)

// Recommended actions surfaced in recaps. Callers treat these as opaque
// display strings.
const (
	ActionRepeatSet          = "repeat this set"
	ActionIncreaseDifficulty = "increase difficulty"
	ActionReviewFlagged      = "revisit flagged words"
)

// OutcomeCounts tallies items by the outcome of their most recent attempt.
type OutcomeCounts struct {
	Correct   int
	Incorrect int
}

// Total returns the number of counted items.
func (c OutcomeCounts) Total() int {
	return c.Correct + c.Incorrect
}

// Accuracy returns the correct share of counted items; 0 when nothing has
// been counted, never NaN.
func (c OutcomeCounts) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(total)
}

// ComputeOutcomes counts each item by its most recent attempt only.
// Items with no attempts are excluded from both counts, so the result is
// invariant to item order and to any earlier attempts an item accumulated.
func ComputeOutcomes(items []models.Item) OutcomeCounts {
	var counts OutcomeCounts
	for i := range items {
		last := items[i].LastAttempt()
		if last == nil {
			continue
		}
		if last.Correct {
			counts.Correct++
		} else {
			counts.Incorrect++
		}
	}
	return counts
}

// Missed returns the items whose most recent attempt was incorrect, in
// input order. Unanswered items are not missed.
func Missed(items []models.Item) []models.Item {
	var out []models.Item
	for i := range items {
		last := items[i].LastAttempt()
		if last != nil && !last.Correct {
			out = append(out, items[i])
		}
	}
	return out
}

// BuildRecap summarizes a finished item set. Per-item durations come from
// each item's most recent attempt, 0 for items never answered. dueCaptures
// are the (vocabId, dueAt) pairs recorded while grading; their order is
// preserved. The call is idempotent: the same items and captures always
// produce the same recap, and the inputs are never modified.
func BuildRecap(items []models.Item, dueCaptures []models.DueEntry) *models.Recap {
	counts := ComputeOutcomes(items)

	durations := make([]float64, len(items))
	flagged := false
	for i := range items {
		if last := items[i].LastAttempt(); last != nil {
			durations[i] = last.DurationSeconds
		}
		if items[i].IsFlagged {
			flagged = true
		}
	}

	var actions []string
	if counts.Total() > 0 {
		switch {
		case counts.Accuracy() < repeatBelow:
			actions = append(actions, ActionRepeatSet)
		case counts.Accuracy() >= advanceAbove:
			actions = append(actions, ActionIncreaseDifficulty)
		}
	}
	if flagged {
		actions = append(actions, ActionReviewFlagged)
	}

	queue := make([]models.DueEntry, len(dueCaptures))
	copy(queue, dueCaptures)

	return &models.Recap{
		Accuracy:                counts.Accuracy(),
		PerItemDurationsSeconds: durations,
		RecommendedActions:      actions,
		DueQueue:                queue,
	}
}
