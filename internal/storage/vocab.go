package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

type schedulerRow struct {
	VocabID        string       `db:"vocab_id"`
	Streak         int          `db:"streak"`
	IntervalHours  float64      `db:"interval_hours"`
	EaseFactor     float64      `db:"ease_factor"`
	DueAt          time.Time    `db:"due_at"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
}

func (r schedulerRow) toModel() *models.SchedulerState {
	state := &models.SchedulerState{
		Streak:        r.Streak,
		IntervalHours: r.IntervalHours,
		EaseFactor:    r.EaseFactor,
		DueAt:         r.DueAt,
	}
	if r.LastReviewedAt.Valid {
		v := r.LastReviewedAt.Time
		state.LastReviewedAt = &v
	}
	return state
}

type performanceRow struct {
	VocabID              string       `db:"vocab_id"`
	RecognitionCorrect   int          `db:"recognition_correct"`
	RecognitionIncorrect int          `db:"recognition_incorrect"`
	RecognitionLastAt    sql.NullTime `db:"recognition_last_at"`
	ProductionCorrect    int          `db:"production_correct"`
	ProductionIncorrect  int          `db:"production_incorrect"`
	ProductionLastAt     sql.NullTime `db:"production_last_at"`
}

func (r performanceRow) toModel() *models.Performance {
	perf := &models.Performance{
		Recognition: models.Tally{CorrectCount: r.RecognitionCorrect, IncorrectCount: r.RecognitionIncorrect},
		Production:  models.Tally{CorrectCount: r.ProductionCorrect, IncorrectCount: r.ProductionIncorrect},
	}
	if r.RecognitionLastAt.Valid {
		v := r.RecognitionLastAt.Time
		perf.Recognition.LastAttemptAt = &v
	}
	if r.ProductionLastAt.Valid {
		v := r.ProductionLastAt.Time
		perf.Production.LastAttemptAt = &v
	}
	return perf
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// GetSchedulerState returns the scheduler state for a vocabulary entry,
// nil if it has never been reviewed.
func (s *Store) GetSchedulerState(vocabID string) (*models.SchedulerState, error) {
	var row schedulerRow
	err := s.db.Get(&row, "SELECT * FROM scheduler_state WHERE vocab_id = $1", vocabID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduler state: %w", err)
	}
	return row.toModel(), nil
}

// SetSchedulerState inserts or replaces the scheduler state for a
// vocabulary entry.
func (s *Store) SetSchedulerState(vocabID string, state models.SchedulerState) error {
	_, err := s.db.Exec(`
		INSERT INTO scheduler_state (vocab_id, streak, interval_hours, ease_factor, due_at, last_reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (vocab_id) DO UPDATE SET
			streak = EXCLUDED.streak,
			interval_hours = EXCLUDED.interval_hours,
			ease_factor = EXCLUDED.ease_factor,
			due_at = EXCLUDED.due_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at`,
		vocabID,
		state.Streak,
		state.IntervalHours,
		state.EaseFactor,
		state.DueAt,
		nullTime(state.LastReviewedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to set scheduler state: %w", err)
	}
	return nil
}

// ClearSchedulerState removes the scheduler state for a vocabulary entry.
// Clearing an absent entry is not an error.
func (s *Store) ClearSchedulerState(vocabID string) error {
	_, err := s.db.Exec("DELETE FROM scheduler_state WHERE vocab_id = $1", vocabID)
	if err != nil {
		return fmt.Errorf("failed to clear scheduler state: %w", err)
	}
	return nil
}

// GetPerformance returns the performance counters for a vocabulary entry,
// nil if none have been recorded.
func (s *Store) GetPerformance(vocabID string) (*models.Performance, error) {
	var row performanceRow
	err := s.db.Get(&row, "SELECT * FROM performance WHERE vocab_id = $1", vocabID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get performance: %w", err)
	}
	return row.toModel(), nil
}

// SetPerformance inserts or replaces the performance counters for a
// vocabulary entry.
func (s *Store) SetPerformance(vocabID string, perf models.Performance) error {
	_, err := s.db.Exec(`
		INSERT INTO performance (
			vocab_id,
			recognition_correct, recognition_incorrect, recognition_last_at,
			production_correct, production_incorrect, production_last_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (vocab_id) DO UPDATE SET
			recognition_correct = EXCLUDED.recognition_correct,
			recognition_incorrect = EXCLUDED.recognition_incorrect,
			recognition_last_at = EXCLUDED.recognition_last_at,
			production_correct = EXCLUDED.production_correct,
			production_incorrect = EXCLUDED.production_incorrect,
			production_last_at = EXCLUDED.production_last_at`,
		vocabID,
		perf.Recognition.CorrectCount,
		perf.Recognition.IncorrectCount,
		nullTime(perf.Recognition.LastAttemptAt),
		perf.Production.CorrectCount,
		perf.Production.IncorrectCount,
		nullTime(perf.Production.LastAttemptAt),
	)
	if err != nil {
		return fmt.Errorf("failed to set performance: %w", err)
	}
	return nil
}

// ClearPerformance removes the performance counters for a vocabulary entry.
func (s *Store) ClearPerformance(vocabID string) error {
	_, err := s.db.Exec("DELETE FROM performance WHERE vocab_id = $1", vocabID)
	if err != nil {
		return fmt.Errorf("failed to clear performance: %w", err)
	}
	return nil
}

// ListDue returns entries due at now, earliest first. limit < 0 means no
// limit.
func (s *Store) ListDue(now time.Time, limit int) ([]models.DueEntry, error) {
	query := "SELECT vocab_id, due_at FROM scheduler_state WHERE due_at <= $1 ORDER BY due_at ASC"
	args := []interface{}{now}
	if limit >= 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var rows []struct {
		VocabID string    `db:"vocab_id"`
		DueAt   time.Time `db:"due_at"`
	}
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list due entries: %w", err)
	}

	entries := make([]models.DueEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.DueEntry{VocabID: row.VocabID, DueAt: row.DueAt}
	}
	return entries, nil
}
