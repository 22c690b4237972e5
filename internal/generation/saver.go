package generation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Saver stores a generated document
type Saver interface {
	Save(name string, r io.Reader) (path string, size int64, err error)
}

// DirSaver writes documents into a directory, replacing any previous file of
// the same name only once the new one is complete.
type DirSaver struct {
	Dir string
}

func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir}
}

func (s *DirSaver) Save(name string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	destPath := filepath.Join(s.Dir, name)
	tempPath := destPath + ".tmp"

	out, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to write document: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to write document: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to move file: %w", err)
	}

	return destPath, size, nil
}
