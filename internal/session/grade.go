package session

import (
	"errors"
	"fmt"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/review"
	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Grade records one graded outcome for the session's current item: appends
// a history entry, feeds the scheduler, updates performance counters,
// advances the cursor, and builds the recap if the session completes. The
// whole step commits together or not at all; on any persistence failure
// the stored session is unchanged and vocabulary writes are rolled back.
//
// itemID must name the current item. Grading a completed session, an
// exhausted cursor, or the wrong item returns the unchanged session with
// ErrInvalidOperation and mutates nothing.
func (e *Engine) Grade(sessionID, itemID string, outcome models.Outcome) (*models.Session, error) {
	rt, unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	current := session.CurrentItem()
	if current == nil {
		return session, fmt.Errorf("%w: no current item to grade", ErrInvalidOperation)
	}
	if current.ItemID != itemID {
		return session, fmt.Errorf("%w: item %s is not the current item", ErrInvalidOperation, itemID)
	}

	now := e.now()

	// Snapshot everything the undo path needs, reading vocabulary state
	// immediately before computing the update.
	entry := undoEntry{
		itemID:   itemID,
		vocabID:  current.VocabID,
		progress: session.Progress,
	}
	if current.VocabID != "" {
		entry.schedState, err = e.vocab.GetSchedulerState(current.VocabID)
		if err != nil {
			return nil, fmt.Errorf("%w: reading scheduler state: %v", ErrPersistence, err)
		}
		entry.performance, err = e.vocab.GetPerformance(current.VocabID)
		if err != nil {
			return nil, fmt.Errorf("%w: reading performance: %v", ErrPersistence, err)
		}
	}

	// Apply the transaction to a copy; the stored record is only replaced
	// after every write lands.
	updated := session.Clone()
	item := updated.ItemByID(itemID)

	tags := outcome.ErrorTags
	if tags != nil {
		tags = append([]string(nil), tags...)
	}
	item.History = append(item.History, models.Attempt{
		AttemptID:       e.newID(),
		Answer:          outcome.Answer,
		Correct:         outcome.Correct,
		Score:           clamp01(outcome.Score),
		ErrorTags:       tags,
		DurationSeconds: outcome.DurationSeconds,
		AnsweredAt:      now,
	})

	var (
		nextState *models.SchedulerState
		nextPerf  *models.Performance
	)
	if current.VocabID != "" {
		state := e.policy.NextState(entry.schedState, outcome.Correct, now)
		nextState = &state

		var perf models.Performance
		if entry.performance != nil {
			perf = entry.performance.Clone()
		}
		tally := perf.ForActivity(updated.Config.Activity())
		if outcome.Correct {
			tally.CorrectCount++
		} else {
			tally.IncorrectCount++
		}
		attemptAt := now
		tally.LastAttemptAt = &attemptAt
		nextPerf = &perf
	}

	updated.Progress.CurrentIndex++
	if updated.Progress.CurrentIndex == len(updated.Items) {
		updated.Progress.IsComplete = true
	}

	captures := rt.captures
	if nextState != nil {
		captures = append(append([]models.DueEntry(nil), rt.captures...),
			models.DueEntry{VocabID: current.VocabID, DueAt: nextState.DueAt})
		entry.captured = true
	}
	if updated.Progress.IsComplete {
		updated.Recap = review.BuildRecap(updated.Items, captures)
	}

	// Vocabulary first, session record last. A failed session save unwinds
	// the vocabulary writes so no partial commit is ever visible.
	if nextState != nil {
		if err := e.vocab.SetSchedulerState(current.VocabID, *nextState); err != nil {
			return nil, fmt.Errorf("%w: writing scheduler state: %v", ErrPersistence, err)
		}
		if err := e.vocab.SetPerformance(current.VocabID, *nextPerf); err != nil {
			err = errors.Join(err, e.restoreSchedulerState(current.VocabID, entry.schedState))
			return nil, fmt.Errorf("%w: writing performance: %v", ErrPersistence, err)
		}
	}
	if err := e.sessions.SaveSession(updated); err != nil {
		if nextState != nil {
			err = errors.Join(err,
				e.restoreSchedulerState(current.VocabID, entry.schedState),
				e.restorePerformance(current.VocabID, entry.performance))
		}
		return nil, fmt.Errorf("%w: saving session: %v", ErrPersistence, err)
	}

	rt.undo = append(rt.undo, entry)
	rt.captures = captures

	return updated, nil
}

// loadSession loads through the repository, classifying failures.
func (e *Engine) loadSession(sessionID string) (*models.Session, error) {
	session, err := e.sessions.LoadSession(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		return nil, fmt.Errorf("%w: loading session: %v", ErrPersistence, err)
	}
	return session, nil
}

// restoreSchedulerState writes back a pre-grade snapshot, clearing the
// record when the snapshot was absent.
func (e *Engine) restoreSchedulerState(vocabID string, prior *models.SchedulerState) error {
	if prior == nil {
		return e.vocab.ClearSchedulerState(vocabID)
	}
	return e.vocab.SetSchedulerState(vocabID, *prior)
}

// restorePerformance writes back a pre-grade snapshot, clearing the record
// when the snapshot was absent.
func (e *Engine) restorePerformance(vocabID string, prior *models.Performance) error {
	if prior == nil {
		return e.vocab.ClearPerformance(vocabID)
	}
	return e.vocab.SetPerformance(vocabID, *prior)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
