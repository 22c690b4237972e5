package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docuflow/docuflow/internal/models"
)

// Keys the credential pair is persisted under
const (
	KeyToken    = "access_token"
	KeyUsername = "username"
)

// Backends accepted by New
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SessionStore persists the current credential.
// Load never does network I/O and reports a storage fault as "no session".
// Save writes both keys or neither. Clear is idempotent.
type SessionStore interface {
	Load() (models.Session, bool)
	Save(session models.Session) error
	Clear() error
}

// New opens the session store for the given backend.
// An empty path selects the default location for the backend.
func New(backend, path string) (SessionStore, error) {
	switch backend {
	case "", BackendFile:
		if path == "" {
			p, err := DefaultPath("session.yaml")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path), nil
	case BackendSQLite:
		if path == "" {
			p, err := DefaultPath("session.db")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", backend)
	}
}

// DefaultPath returns name inside the per-user docuflow config directory
func DefaultPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "docuflow", name), nil
}

// sessionFromKeys builds a session from the two persisted keys.
// Absence of either key means unauthenticated.
func sessionFromKeys(values map[string]string) (models.Session, bool) {
	s := models.Session{
		Token:    values[KeyToken],
		Username: values[KeyUsername],
	}
	if !s.Valid() {
		return models.Session{}, false
	}
	return s, true
}
