package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File stores the blob as a plain file. The file path plays the role of the key.
type File struct {
	Path string
}

// NewFile returns a file backend rooted at path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads the board file. A missing file yields ErrNotFound.
func (f *File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read board file: %w", err)
	}
	return data, nil
}

// Save writes the board file, creating its directory if needed.
func (f *File) Save(data []byte) error {
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create board dir: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}
	return nil
}

// Close is a no-op for files.
func (f *File) Close() error { return nil }
