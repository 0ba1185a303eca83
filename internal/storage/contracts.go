// Package storage persists sessions, scheduler state, performance counters,
// and the word bank. The session engine depends only on the narrow
// SessionRepository and VocabularyStore contracts; the sqlx-backed Store
// and the in-memory store both satisfy them.
package storage

import (
	"errors"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// ErrNotFound is returned when a record looked up by ID does not exist.
var ErrNotFound = errors.New("storage: not found")

// SessionRepository is whole-record session persistence. No querying or
// partial updates: Load returns the full session, Save replaces it.
type SessionRepository interface {
	// LoadSession returns the stored session or ErrNotFound.
	LoadSession(sessionID string) (*models.Session, error)
	// SaveSession inserts or replaces the whole session record.
	SaveSession(session *models.Session) error
}

// VocabularyStore holds per-vocabulary scheduler state and performance
// counters, shared across sessions. Absent records are a normal condition
// (vocabulary never reviewed), so the getters return nil with no error
// rather than ErrNotFound.
type VocabularyStore interface {
	GetSchedulerState(vocabID string) (*models.SchedulerState, error)
	SetSchedulerState(vocabID string, state models.SchedulerState) error
	ClearSchedulerState(vocabID string) error

	GetPerformance(vocabID string) (*models.Performance, error)
	SetPerformance(vocabID string, perf models.Performance) error
	// ClearPerformance removes the counters entirely; undo needs it to
	// restore a vocabulary entry that had none before grading.
	ClearPerformance(vocabID string) error
}

// WordFilter narrows word-bank reads. Zero values mean no constraint.
type WordFilter struct {
	Topics        []string
	MaxDifficulty int
	Limit         int
}

// WordBank is the vocabulary content store the pool is assembled from.
type WordBank interface {
	UpsertWord(word *models.Word) error
	GetWord(id string) (*models.Word, error)
	ListWords(filter WordFilter) ([]models.Word, error)
	// Pool returns words joined with their scheduler state, nil state for
	// words never reviewed.
	Pool(filter WordFilter) ([]models.PoolEntry, error)
}

// DueLister reports scheduler entries due at a given time, earliest first.
// The reminder loop uses it to decide whether a nudge is worth sending.
type DueLister interface {
	ListDue(now time.Time, limit int) ([]models.DueEntry, error)
}

var (
	_ SessionRepository = (*Store)(nil)
	_ VocabularyStore   = (*Store)(nil)
	_ WordBank          = (*Store)(nil)
	_ DueLister         = (*Store)(nil)

	_ SessionRepository = (*MemoryStore)(nil)
	_ VocabularyStore   = (*MemoryStore)(nil)
	_ DueLister         = (*MemoryStore)(nil)
)
