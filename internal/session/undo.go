package session

import (
	"errors"
	"fmt"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Undo reverses the most recent graded attempt: removes the item's last
// history entry, restores the pre-grade scheduler state and performance
// counters (deleting them when they did not exist before), restores the
// progress snapshot, and clears the recap. With an empty undo stack this
// is a no-op returning the current session.
//
// On persistence failure nothing visible changes and the undo entry stays
// on the stack, so the caller can retry.
func (e *Engine) Undo(sessionID string) (*models.Session, error) {
	rt, unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	if len(rt.undo) == 0 {
		return session, nil
	}
	entry := rt.undo[len(rt.undo)-1]

	target := session.ItemByID(entry.itemID)
	if target == nil || len(target.History) == 0 {
		return session, fmt.Errorf("%w: undo target out of sync with stored session", ErrInvalidOperation)
	}

	updated := session.Clone()
	item := updated.ItemByID(entry.itemID)
	item.History = item.History[:len(item.History)-1]
	updated.Progress = entry.progress
	updated.Recap = nil

	// Keep the post-grade vocabulary values around so a failed session
	// save can roll the store forward again.
	var (
		postState *models.SchedulerState
		postPerf  *models.Performance
	)
	if entry.vocabID != "" {
		postState, err = e.vocab.GetSchedulerState(entry.vocabID)
		if err != nil {
			return nil, fmt.Errorf("%w: reading scheduler state: %v", ErrPersistence, err)
		}
		postPerf, err = e.vocab.GetPerformance(entry.vocabID)
		if err != nil {
			return nil, fmt.Errorf("%w: reading performance: %v", ErrPersistence, err)
		}

		if err := e.restoreSchedulerState(entry.vocabID, entry.schedState); err != nil {
			return nil, fmt.Errorf("%w: restoring scheduler state: %v", ErrPersistence, err)
		}
		if err := e.restorePerformance(entry.vocabID, entry.performance); err != nil {
			err = errors.Join(err, e.restoreSchedulerState(entry.vocabID, postState))
			return nil, fmt.Errorf("%w: restoring performance: %v", ErrPersistence, err)
		}
	}

	if err := e.sessions.SaveSession(updated); err != nil {
		if entry.vocabID != "" {
			err = errors.Join(err,
				e.restoreSchedulerState(entry.vocabID, postState),
				e.restorePerformance(entry.vocabID, postPerf))
		}
		return nil, fmt.Errorf("%w: saving session: %v", ErrPersistence, err)
	}

	rt.undo = rt.undo[:len(rt.undo)-1]
	if entry.captured && len(rt.captures) > 0 {
		rt.captures = rt.captures[:len(rt.captures)-1]
	}

	return updated, nil
}
