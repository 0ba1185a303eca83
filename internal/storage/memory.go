package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// MemoryStore keeps sessions and vocabulary state in process memory. It
// satisfies the same contracts as Store and deep-copies records on both
// reads and writes, so callers can't alias its internals.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	states   map[string]models.SchedulerState
	perfs    map[string]models.Performance
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		states:   make(map[string]models.SchedulerState),
		perfs:    make(map[string]models.Performance),
	}
}

// LoadSession returns the stored session or ErrNotFound.
func (m *MemoryStore) LoadSession(sessionID string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return session.Clone(), nil
}

// SaveSession inserts or replaces the whole session record.
func (m *MemoryStore) SaveSession(session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = session.Clone()
	return nil
}

// GetSchedulerState returns the scheduler state for a vocabulary entry,
// nil if it has never been reviewed.
func (m *MemoryStore) GetSchedulerState(vocabID string) (*models.SchedulerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[vocabID]
	if !ok {
		return nil, nil
	}
	clone := state.Clone()
	return &clone, nil
}

// SetSchedulerState inserts or replaces the scheduler state for a
// vocabulary entry.
func (m *MemoryStore) SetSchedulerState(vocabID string, state models.SchedulerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[vocabID] = state.Clone()
	return nil
}

// ClearSchedulerState removes the scheduler state for a vocabulary entry.
func (m *MemoryStore) ClearSchedulerState(vocabID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, vocabID)
	return nil
}

// GetPerformance returns the performance counters for a vocabulary entry,
// nil if none have been recorded.
func (m *MemoryStore) GetPerformance(vocabID string) (*models.Performance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	perf, ok := m.perfs[vocabID]
	if !ok {
		return nil, nil
	}
	clone := perf.Clone()
	return &clone, nil
}

// SetPerformance inserts or replaces the performance counters for a
// vocabulary entry.
func (m *MemoryStore) SetPerformance(vocabID string, perf models.Performance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perfs[vocabID] = perf.Clone()
	return nil
}

// ClearPerformance removes the performance counters for a vocabulary entry.
func (m *MemoryStore) ClearPerformance(vocabID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.perfs, vocabID)
	return nil
}

// ListDue returns entries due at now, earliest first.
func (m *MemoryStore) ListDue(now time.Time, limit int) ([]models.DueEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []models.DueEntry
	for vocabID, state := range m.states {
		if state.IsDue(now) {
			entries = append(entries, models.DueEntry{VocabID: vocabID, DueAt: state.DueAt})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DueAt.Equal(entries[j].DueAt) {
			return entries[i].DueAt.Before(entries[j].DueAt)
		}
		return entries[i].VocabID < entries[j].VocabID
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
