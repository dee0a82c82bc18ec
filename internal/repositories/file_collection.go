package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// FileCollection keeps a collection as one indented JSON array on disk.
// A missing file reads as an empty collection.
type FileCollection[T any] struct {
	path string
}

// NewFileCollection creates a FileCollection stored at path
func NewFileCollection[T any](path string) *FileCollection[T] {
	return &FileCollection[T]{path: path}
}

func (c *FileCollection[T]) LoadAll(_ context.Context) ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// SaveAll writes to a temporary file and renames it over the old one.
func (c *FileCollection[T]) SaveAll(_ context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}

// NewFileStore opens a store kept as JSON files under dir, creating dir if needed.
func NewFileStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return NewStore(
		NewFileCollection[models.User](filepath.Join(dir, "users.json")),
		NewFileCollection[models.Post](filepath.Join(dir, "posts.json")),
		NewFileCollection[models.Story](filepath.Join(dir, "stories.json")),
		NewFileCollection[models.Message](filepath.Join(dir, "messages.json")),
	), nil
}
