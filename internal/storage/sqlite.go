package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docuflow/docuflow/internal/models"
	_ "modernc.org/sqlite"
)

const credentialsSchema = `
CREATE TABLE IF NOT EXISTS credentials (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps the credential pair as two rows of a key/value table.
// Save and Clear run in a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(credentialsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (models.Session, bool) {
	rows, err := s.db.Query("SELECT key, value FROM credentials WHERE key IN (?, ?)", KeyToken, KeyUsername)
	if err != nil {
		slog.Warn("Unable to read session database", "err", err)
		return models.Session{}, false
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			slog.Warn("Unable to scan session row", "err", err)
			return models.Session{}, false
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		slog.Warn("Unable to read session database", "err", err)
		return models.Session{}, false
	}

	return sessionFromKeys(values)
}

func (s *SQLiteStore) Save(session models.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin session transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := tx.Exec(upsert, KeyToken, session.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if _, err := tx.Exec(upsert, KeyUsername, session.Username); err != nil {
		return fmt.Errorf("failed to save username: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM credentials WHERE key IN (?, ?)", KeyToken, KeyUsername); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
