package session

import (
	"fmt"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/review"
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Subset selects which items of a finished session to replay.
type Subset string

const (
	// SubsetMissed replays the items whose last attempt was incorrect,
	// in shuffled order.
	SubsetMissed Subset = "missed"
	// SubsetAll replays every item in original order.
	SubsetAll Subset = "all"
)

// RestartWithSubset produces a brand-new session replaying a subset of the
// given session's items: same configuration and vocabulary links, fresh
// item ids, empty histories, progress reset, no recap. The original
// session record is left untouched; its discarded history is the point,
// so a missed item gets a clean due-date computation on replay.
//
// Returns ErrInsufficientContent when the subset selects nothing.
func (e *Engine) RestartWithSubset(sessionID string, subset Subset) (*models.Session, error) {
	rt, unlock := e.lock(sessionID)
	defer unlock()

	original, err := e.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	var picked []models.Item
	switch subset {
	case SubsetAll:
		picked = original.Items
	case SubsetMissed:
		picked = review.Missed(original.Items)
		e.shuffleItems(picked)
	default:
		return nil, fmt.Errorf("%w: unknown subset %q", ErrInvalidOperation, subset)
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("%w: subset %q selected no items", ErrInsufficientContent, subset)
	}

	now := e.now()

	items := make([]models.Item, len(picked))
	for i := range picked {
		items[i] = models.Item{
			ItemID:    e.newID(),
			Prompt:    picked[i].Prompt,
			Rubric:    picked[i].Rubric,
			VocabID:   picked[i].VocabID,
			IsFlagged: picked[i].IsFlagged,
		}
	}

	cfg := original.Config
	if cfg.TopicTags != nil {
		cfg.TopicTags = append([]string(nil), cfg.TopicTags...)
	}

	replay := &models.Session{
		SessionID: e.newID(),
		ProfileID: original.ProfileID,
		CreatedAt: now,
		Config:    cfg,
		Items:     items,
		Progress:  models.Progress{CurrentIndex: 0, IsComplete: false, LastOpenedAt: now},
	}

	if err := e.sessions.SaveSession(replay); err != nil {
		return nil, fmt.Errorf("%w: saving replay session: %v", ErrPersistence, err)
	}

	// Undo cannot reach back across a restart, from either side.
	rt.undo = nil
	rt.captures = nil
	nrt, nunlock := e.lock(replay.SessionID)
	nrt.undo = nil
	nrt.captures = nil
	nunlock()

	return replay, nil
}
