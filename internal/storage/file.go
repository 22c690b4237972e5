package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docuflow/docuflow/internal/models"
	"gopkg.in/yaml.v3"
)

// FileStore persists the credential as a small YAML document.
// Writes go to a temp file that is renamed over the target, so readers see
// either the old or the new pair.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the credential is stored in
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (models.Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Unable to read session file", "path", s.path, "err", err)
		}
		return models.Session{}, false
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		slog.Warn("Unable to parse session file", "path", s.path, "err", err)
		return models.Session{}, false
	}

	return sessionFromKeys(values)
}

func (s *FileStore) Save(session models.Session) error {
	data, err := yaml.Marshal(map[string]string{
		KeyToken:    session.Token,
		KeyUsername: session.Username,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to restrict session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move session file: %w", err)
	}

	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
