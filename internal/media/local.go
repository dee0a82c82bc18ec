package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// URLPrefix is where locally stored uploads are served from.
const URLPrefix = "/uploads"

// LocalStorage writes uploads to a directory served statically under URLPrefix.
type LocalStorage struct {
	dir string
	now func() time.Time
}

// NewLocalStorage creates dir if needed and stores uploads in it
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	return &LocalStorage{dir: dir, now: time.Now}, nil
}

func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Save(_ context.Context, file *multipart.FileHeader) (models.Media, error) {
	src, kind, mt, err := open(file)
	if err != nil {
		return models.Media{}, err
	}
	defer src.Close()

	name, err := objectName(s.now(), file.Filename, mt)
	if err != nil {
		return models.Media{}, err
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return models.Media{}, fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return models.Media{}, fmt.Errorf("writing %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return models.Media{}, err
	}

	return models.Media{URL: path.Join(URLPrefix, name), Kind: kind}, nil
}

func (s *LocalStorage) Delete(_ context.Context, m models.Media) error {
	name, ok := strings.CutPrefix(m.URL, URLPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("deleting %s: %w", m.URL, errForeignMedia)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	return nil
}
