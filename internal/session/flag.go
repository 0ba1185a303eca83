package session

import (
	"errors"
	"fmt"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Flag sets or clears the learner's flag on an item. Flagging forces the
// linked vocabulary entry onto a short fixed due window; unflagging
// restores the curve-derived due time. Flagging is not a graded outcome:
// it never touches item history, streaks, ease factors, or the undo stack,
// and vocabulary never reviewed gets no scheduler record from it.
//
// Setting the flag to its current value is a no-op.
func (e *Engine) Flag(sessionID, itemID string, flagged bool) (*models.Session, error) {
	_, unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	item := session.ItemByID(itemID)
	if item == nil {
		return session, fmt.Errorf("%w: item %s not in session", ErrInvalidOperation, itemID)
	}
	if item.IsFlagged == flagged {
		return session, nil
	}

	now := e.now()

	var prior, next *models.SchedulerState
	if item.VocabID != "" {
		prior, err = e.vocab.GetSchedulerState(item.VocabID)
		if err != nil {
			return nil, fmt.Errorf("%w: reading scheduler state: %v", ErrPersistence, err)
		}
		if prior != nil {
			var state models.SchedulerState
			if flagged {
				state = e.policy.Priority(*prior, now)
			} else {
				state = e.policy.ClearPriority(*prior, now)
			}
			next = &state
		}
	}

	item.IsFlagged = flagged

	if next != nil {
		if err := e.vocab.SetSchedulerState(item.VocabID, *next); err != nil {
			return nil, fmt.Errorf("%w: writing scheduler state: %v", ErrPersistence, err)
		}
	}
	if err := e.sessions.SaveSession(session); err != nil {
		if next != nil {
			err = errors.Join(err, e.restoreSchedulerState(item.VocabID, prior))
		}
		return nil, fmt.Errorf("%w: saving session: %v", ErrPersistence, err)
	}

	return session, nil
}
