// Package srs computes spaced-repetition scheduling state. All functions
// are pure: they never mutate their inputs and never touch storage.
package srs

import (
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Policy bounds the scheduling curve. Intervals are expressed in hours so
// failed entries can resurface within the same day.
type Policy struct {
	// InitialEase is the ease factor assigned before the first outcome.
	InitialEase float64
	// MinEase is the floor the ease factor can never drop below.
	MinEase float64
	// MaxEase caps ease growth on repeated successes.
	MaxEase float64
	// EaseBonus is added to the ease factor on a correct outcome.
	EaseBonus float64
	// EasePenalty is subtracted from the ease factor on an incorrect outcome.
	EasePenalty float64
	// InitialIntervalHours is the interval granted by the first successful review.
	InitialIntervalHours float64
	// RetryIntervalHours is the interval after an incorrect outcome.
	RetryIntervalHours float64
	// MaxIntervalHours caps interval growth.
	MaxIntervalHours float64
	// PriorityIntervalHours is the forced due window for flagged entries.
	PriorityIntervalHours float64
}

// DefaultPolicy returns the standard scheduling policy.
func DefaultPolicy() Policy {
	return Policy{
		InitialEase:           2.5,
		MinEase:               1.3,
		MaxEase:               3.0,
		EaseBonus:             0.10,
		EasePenalty:           0.20,
		InitialIntervalHours:  24,
		RetryIntervalHours:    4,
		MaxIntervalHours:      24 * 365,
		PriorityIntervalHours: 1,
	}
}

// NextState computes the scheduler state after one graded outcome.
// prior == nil means the entry has never been reviewed; the returned state
// is then the entry's first. The input state is never mutated.
func (p Policy) NextState(prior *models.SchedulerState, correct bool, now time.Time) models.SchedulerState {
	state := models.SchedulerState{EaseFactor: p.InitialEase}
	if prior != nil {
		state = prior.Clone()
	}

	if correct {
		state.Streak++
		state.EaseFactor = clamp(state.EaseFactor+p.EaseBonus, p.MinEase, p.MaxEase)

		// Grow by the updated ease factor. The initial grant keeps the
		// first interval (and any post-failure recovery) from collapsing
		// toward zero; growth never shortens an interval.
		next := state.IntervalHours * state.EaseFactor
		if next < p.InitialIntervalHours {
			next = p.InitialIntervalHours
		}
		if next < state.IntervalHours {
			next = state.IntervalHours
		}
		if next > p.MaxIntervalHours {
			next = p.MaxIntervalHours
		}
		state.IntervalHours = next
	} else {
		state.Streak = 0
		state.EaseFactor = clamp(state.EaseFactor-p.EasePenalty, p.MinEase, p.MaxEase)
		state.IntervalHours = p.RetryIntervalHours
	}

	state.DueAt = now.Add(hoursToDuration(state.IntervalHours))
	reviewed := now
	state.LastReviewedAt = &reviewed
	return state
}

// Priority forces a short fixed due window for a flagged entry without
// touching streak, ease factor, interval, or the last-review timestamp.
// It is not a graded outcome and reverses independently via ClearPriority.
func (p Policy) Priority(state models.SchedulerState, now time.Time) models.SchedulerState {
	out := state.Clone()
	out.DueAt = now.Add(hoursToDuration(p.PriorityIntervalHours))
	return out
}

// ClearPriority restores the curve-derived due time after an entry is
// unflagged. Entries never reviewed fall back to due-now. The result
// depends only on the state, never on the policy.
func (Policy) ClearPriority(state models.SchedulerState, now time.Time) models.SchedulerState {
	out := state.Clone()
	if out.LastReviewedAt != nil {
		out.DueAt = out.LastReviewedAt.Add(hoursToDuration(out.IntervalHours))
	} else {
		out.DueAt = now
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
