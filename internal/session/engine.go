// Package session implements the practice-session engine: creation, item
// traversal, grading, single-step undo, restart with a filtered subset,
// and the end-of-session recap. The engine owns no global state; it works
// against an injected session repository and vocabulary store.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/srs"
	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Config wires an Engine's dependencies. Sessions and Vocab are required;
// the rest default sensibly.
type Config struct {
	Sessions storage.SessionRepository
	Vocab    storage.VocabularyStore

	// Policy is the scheduling policy; nil means srs.DefaultPolicy.
	Policy *srs.Policy
	// Now supplies the clock, for tests. Nil means time.Now.
	Now func() time.Time
	// NewID mints attempt, item, and session ids. Nil means uuid.NewString.
	NewID func() string
	// Rand drives item-order shuffles. Nil means a time-seeded source.
	Rand *rand.Rand
}

// Engine runs practice sessions. Operations on the same session id are
// serialized; different sessions are fully independent.
type Engine struct {
	sessions storage.SessionRepository
	vocab    storage.VocabularyStore
	policy   srs.Policy
	now      func() time.Time
	newID    func() string

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.Mutex
	runtimes map[string]*runtime
}

// runtime is the transient per-session state: the undo stack and the
// due-date capture buffer. Both reset when the session is (re)opened or
// restarted, so neither survives a process restart.
type runtime struct {
	mu       sync.Mutex
	undo     []undoEntry
	captures []models.DueEntry
}

// undoEntry snapshots everything needed to reverse one graded attempt.
type undoEntry struct {
	itemID      string
	vocabID     string
	progress    models.Progress
	schedState  *models.SchedulerState // nil means absent before grading
	performance *models.Performance    // nil means absent before grading
	captured    bool                   // a due capture was appended by this grade
}

// New builds an Engine, filling defaults for unset optional fields.
func New(cfg Config) (*Engine, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("session: Config.Sessions is required")
	}
	if cfg.Vocab == nil {
		return nil, errors.New("session: Config.Vocab is required")
	}

	policy := srs.DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Engine{
		sessions: cfg.Sessions,
		vocab:    cfg.Vocab,
		policy:   policy,
		now:      now,
		newID:    newID,
		rng:      rng,
		runtimes: make(map[string]*runtime),
	}, nil
}

// lock serializes operations per session id and returns the session's
// runtime plus an unlock func.
func (e *Engine) lock(sessionID string) (*runtime, func()) {
	e.mu.Lock()
	rt, ok := e.runtimes[sessionID]
	if !ok {
		rt = &runtime{}
		e.runtimes[sessionID] = rt
	}
	e.mu.Unlock()

	rt.mu.Lock()
	return rt, rt.mu.Unlock
}

// Create builds a session of the requested length from the candidate pool
// and persists it. The pool is the caller's view of available vocabulary;
// the review mode drives which entries get selected, while presentation
// order is shuffled uniformly. Returns ErrInsufficientContent when the
// pool cannot fill the request.
func (e *Engine) Create(profileID string, cfg models.SessionConfig, pool []models.PoolEntry) (*models.Session, error) {
	now := e.now()

	selected, err := selectEntries(cfg, pool, now)
	if err != nil {
		return nil, err
	}

	items := e.buildItems(cfg, selected)
	e.shuffleItems(items)

	session := &models.Session{
		SessionID: e.newID(),
		ProfileID: profileID,
		CreatedAt: now,
		Config:    cfg,
		Items:     items,
		Progress: models.Progress{
			CurrentIndex: 0,
			IsComplete:   cfg.ItemCount == 0,
			LastOpenedAt: now,
		},
	}

	if err := e.sessions.SaveSession(session); err != nil {
		return nil, fmt.Errorf("%w: saving new session: %v", ErrPersistence, err)
	}

	rt, unlock := e.lock(session.SessionID)
	rt.undo = nil
	rt.captures = nil
	unlock()

	return session, nil
}

// buildItems turns selected pool entries into session items. The
// presentation side decides which half of the card is the prompt and
// which is the expected answer.
func (e *Engine) buildItems(cfg models.SessionConfig, entries []models.PoolEntry) []models.Item {
	items := make([]models.Item, len(entries))
	for i, entry := range entries {
		prompt, rubric := entry.Word.Term, entry.Word.Translation
		if cfg.Side == models.SideTranslation {
			prompt, rubric = entry.Word.Translation, entry.Word.Term
		}
		items[i] = models.Item{
			ItemID:  e.newID(),
			Prompt:  prompt,
			Rubric:  rubric,
			VocabID: entry.Word.ID,
		}
	}
	return items
}

// shuffleItems permutes items uniformly using the engine's rand source.
func (e *Engine) shuffleItems(items []models.Item) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Open loads a session for display, clamps a stale cursor back into range,
// stamps LastOpenedAt, and resets the undo stack and capture buffer. Undo
// cannot cross an open boundary.
func (e *Engine) Open(sessionID string) (*models.Session, error) {
	rt, unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Progress.CurrentIndex > len(session.Items) {
		session.Progress.CurrentIndex = len(session.Items)
	}
	if session.Progress.CurrentIndex < 0 {
		session.Progress.CurrentIndex = 0
	}
	session.Progress.LastOpenedAt = e.now()

	if err := e.sessions.SaveSession(session); err != nil {
		return nil, fmt.Errorf("%w: saving opened session: %v", ErrPersistence, err)
	}

	rt.undo = nil
	rt.captures = nil

	return session, nil
}

// EffectiveIndex is the item index a UI should display for a session:
// the cursor clamped to the last item, or the last item once complete.
func EffectiveIndex(s *models.Session) int {
	last := s.LastIndex()
	if s.Progress.IsComplete {
		return last
	}
	if s.Progress.CurrentIndex > last {
		return last
	}
	return s.Progress.CurrentIndex
}

// CanGrade reports whether the session accepts a grade for its current
// item. UIs use it to disable the action instead of handling
// ErrInvalidOperation.
func CanGrade(s *models.Session) bool {
	return s != nil && !s.Progress.IsComplete && s.CurrentItem() != nil
}

// CanUndo reports whether the session has a graded attempt to roll back.
func (e *Engine) CanUndo(sessionID string) bool {
	e.mu.Lock()
	rt, ok := e.runtimes[sessionID]
	e.mu.Unlock()
	if !ok {
		return false
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.undo) > 0
}
