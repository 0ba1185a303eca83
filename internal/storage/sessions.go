package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Sessions persist as whole JSON records. A few columns are lifted out of
// the payload for listing; the payload stays authoritative.
type sessionRow struct {
	SessionID  string    `db:"session_id"`
	ProfileID  string    `db:"profile_id"`
	CreatedAt  time.Time `db:"created_at"`
	IsComplete bool      `db:"is_complete"`
	Payload    []byte    `db:"payload"`
}

// LoadSession returns the stored session or ErrNotFound.
func (s *Store) LoadSession(sessionID string) (*models.Session, error) {
	var row sessionRow
	err := s.db.Get(&row, "SELECT * FROM sessions WHERE session_id = $1", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(row.Payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &session, nil
}

// SaveSession inserts or replaces the whole session record.
func (s *Store) SaveSession(session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (session_id, profile_id, created_at, is_complete, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET
			profile_id = EXCLUDED.profile_id,
			created_at = EXCLUDED.created_at,
			is_complete = EXCLUDED.is_complete,
			payload = EXCLUDED.payload`,
		session.SessionID,
		session.ProfileID,
		session.CreatedAt,
		session.Progress.IsComplete,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ListSessions returns a profile's sessions, newest first. limit < 0 means
// no limit.
func (s *Store) ListSessions(profileID string, limit int) ([]*models.Session, error) {
	query := "SELECT * FROM sessions WHERE profile_id = $1 ORDER BY created_at DESC"
	args := []interface{}{profileID}
	if limit >= 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var rows []sessionRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(rows))
	for _, row := range rows {
		var session models.Session
		if err := json.Unmarshal(row.Payload, &session); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", row.SessionID, err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}
