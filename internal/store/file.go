package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores each record as a JSON file under a base directory.
type FileBackend struct {
	basePath string
}

// NewFileBackend creates a FileBackend and ensures the base directory exists.
func NewFileBackend(basePath string) (*FileBackend, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileBackend{basePath: basePath}, nil
}

// path makes the key safe for filenames.
func (b *FileBackend) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "-").Replace(key)
	return filepath.Join(b.basePath, name+".json")
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record file: %w", err)
	}
	return data, true, nil
}

// Set writes through a temporary file so a crash never leaves half a record.
func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	target := b.path(key)
	tmp, err := os.CreateTemp(b.basePath, ".record-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace record file: %w", err)
	}
	return nil
}

func (b *FileBackend) Available() bool { return true }
