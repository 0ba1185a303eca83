package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// UpsertWord inserts or updates a word keyed by (term, topic). The word's
// ID is kept stable across re-imports so scheduler state stays attached.
func (s *Store) UpsertWord(word *models.Word) error {
	var existingID string
	err := s.db.Get(&existingID,
		"SELECT id FROM words WHERE term = $1 AND topic = $2", word.Term, word.Topic)
	switch {
	case err == nil:
		word.ID = existingID
		word.UpdatedAt = time.Now().UTC()
		_, err = s.db.Exec(`
			UPDATE words SET translation = $1, difficulty = $2, notes = $3, updated_at = $4
			WHERE id = $5`,
			word.Translation, word.Difficulty, word.Notes, word.UpdatedAt, word.ID)
		if err != nil {
			return fmt.Errorf("failed to update word: %w", err)
		}
		return nil

	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		if word.CreatedAt.IsZero() {
			word.CreatedAt = now
		}
		word.UpdatedAt = now
		_, err = s.db.Exec(`
			INSERT INTO words (id, term, translation, topic, difficulty, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			word.ID, word.Term, word.Translation, word.Topic,
			word.Difficulty, word.Notes, word.CreatedAt, word.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert word: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("failed to look up word: %w", err)
	}
}

// GetWord returns a word by ID or ErrNotFound.
func (s *Store) GetWord(id string) (*models.Word, error) {
	var word models.Word
	err := s.db.Get(&word, "SELECT * FROM words WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return &word, nil
}

// ListWords returns words matching the filter, oldest first so word order
// is stable across calls.
func (s *Store) ListWords(filter WordFilter) ([]models.Word, error) {
	query, args, err := buildWordQuery("SELECT w.* FROM words w", filter)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var words []models.Word
	if err := s.db.Select(&words, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	return words, nil
}

type poolRow struct {
	models.Word
	StateVocabID  sql.NullString  `db:"state_vocab_id"`
	Streak        sql.NullInt64   `db:"state_streak"`
	IntervalHours sql.NullFloat64 `db:"state_interval_hours"`
	EaseFactor    sql.NullFloat64 `db:"state_ease_factor"`
	DueAt         sql.NullTime    `db:"state_due_at"`
	LastReviewed  sql.NullTime    `db:"state_last_reviewed_at"`
}

// Pool returns words joined with their scheduler state for session
// selection. Words never reviewed carry a nil state.
func (s *Store) Pool(filter WordFilter) ([]models.PoolEntry, error) {
	base := `
		SELECT w.*,
			st.vocab_id AS state_vocab_id,
			st.streak AS state_streak,
			st.interval_hours AS state_interval_hours,
			st.ease_factor AS state_ease_factor,
			st.due_at AS state_due_at,
			st.last_reviewed_at AS state_last_reviewed_at
		FROM words w
		LEFT JOIN scheduler_state st ON st.vocab_id = w.id`
	query, args, err := buildWordQuery(base, filter)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []poolRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load pool: %w", err)
	}

	entries := make([]models.PoolEntry, len(rows))
	for i, row := range rows {
		entry := models.PoolEntry{Word: row.Word}
		if row.StateVocabID.Valid {
			state := &models.SchedulerState{
				Streak:        int(row.Streak.Int64),
				IntervalHours: row.IntervalHours.Float64,
				EaseFactor:    row.EaseFactor.Float64,
				DueAt:         row.DueAt.Time,
			}
			if row.LastReviewed.Valid {
				v := row.LastReviewed.Time
				state.LastReviewedAt = &v
			}
			entry.State = state
		}
		entries[i] = entry
	}
	return entries, nil
}

// buildWordQuery appends filter conditions using ? placeholders; callers
// rebind for the active driver.
func buildWordQuery(base string, filter WordFilter) (string, []interface{}, error) {
	var (
		conds []string
		args  []interface{}
	)
	if len(filter.Topics) > 0 {
		conds = append(conds, "w.topic IN (?)")
		args = append(args, filter.Topics)
	}
	if filter.MaxDifficulty > 0 {
		conds = append(conds, "w.difficulty <= ?")
		args = append(args, filter.MaxDifficulty)
	}

	query := base
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY w.created_at ASC, w.id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build word query: %w", err)
	}
	return expanded, expandedArgs, nil
}
