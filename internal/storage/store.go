package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store is the sqlx-backed implementation of every storage contract.
// It supports sqlite for local single-user setups and postgres for
// shared deployments, selected by DB_TYPE.
type Store struct {
	db     *sqlx.DB
	dbType string
}

// Open connects to the given backend ("sqlite" or "postgres") and ensures
// the schema exists. For sqlite the DSN is a file path whose directory is
// created if missing.
func Open(dbType, dsn string) (*Store, error) {
	switch dbType {
	case "sqlite":
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err := sqlx.Connect("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		s := &Store{db: db, dbType: dbType}
		if err := s.initializeSchema(); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil

	case "postgres":
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s := &Store{db: db, dbType: dbType}
		if err := s.initializeSchema(); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// OpenFromEnv connects using DB_TYPE and the matching DSN variable:
// DATABASE_URL for postgres, SQLITE_PATH for sqlite (default
// data/unilex.db). DB_TYPE defaults to sqlite.
func OpenFromEnv() (*Store, error) {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var dsn string
	switch dbType {
	case "sqlite":
		dsn = os.Getenv("SQLITE_PATH")
		if dsn == "" {
			dsn = filepath.Join("data", "unilex.db")
		}
	case "postgres":
		dsn = os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	}

	return Open(dbType, dsn)
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// initializeSchema creates the tables if they don't exist. The DDL sticks
// to the dialect intersection of sqlite and postgres.
func (s *Store) initializeSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			term TEXT NOT NULL,
			translation TEXT NOT NULL,
			topic TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL DEFAULT 1,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE(term, topic)
		)`,
		`CREATE TABLE IF NOT EXISTS scheduler_state (
			vocab_id TEXT PRIMARY KEY,
			streak INTEGER NOT NULL DEFAULT 0,
			interval_hours REAL NOT NULL DEFAULT 0,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			due_at TIMESTAMP NOT NULL,
			last_reviewed_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS performance (
			vocab_id TEXT PRIMARY KEY,
			recognition_correct INTEGER NOT NULL DEFAULT 0,
			recognition_incorrect INTEGER NOT NULL DEFAULT 0,
			recognition_last_at TIMESTAMP,
			production_correct INTEGER NOT NULL DEFAULT 0,
			production_incorrect INTEGER NOT NULL DEFAULT 0,
			production_last_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			profile_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			is_complete BOOLEAN NOT NULL DEFAULT false,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_profile ON sessions(profile_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduler_due ON scheduler_state(due_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
