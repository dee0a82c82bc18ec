// Package media stores uploaded images and videos.
package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedMedia = errors.New("only images and videos can be uploaded")
	ErrMissingMedia     = errors.New("a media file is required")
)

// Storage saves an uploaded file and returns where it can be fetched from.
// Delete removes a file Save returned; deleting a missing file is not an error.
type Storage interface {
	Save(ctx context.Context, file *multipart.FileHeader) (models.Media, error)
	Delete(ctx context.Context, m models.Media) error
}

var errForeignMedia = errors.New("media was not saved by this storage")

// Inspect classifies an upload without storing it.
func Inspect(file *multipart.FileHeader) (models.MediaKind, error) {
	src, kind, _, err := open(file)
	if err != nil {
		return "", err
	}
	src.Close()
	return kind, nil
}

// DetectKind sniffs the content of r and classifies it as an image or a video.
func DetectKind(r io.Reader) (models.MediaKind, *mimetype.MIME, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("detecting media type: %w", err)
	}
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case strings.HasPrefix(m.String(), "image/"):
			return models.MediaImage, mt, nil
		case strings.HasPrefix(m.String(), "video/"):
			return models.MediaVideo, mt, nil
		}
	}
	return "", mt, ErrUnsupportedMedia
}

// open opens an upload and classifies it, leaving the file positioned at its start.
func open(file *multipart.FileHeader) (multipart.File, models.MediaKind, *mimetype.MIME, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening upload: %w", err)
	}
	kind, mt, err := DetectKind(src)
	if err != nil {
		src.Close()
		return nil, "", nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		src.Close()
		return nil, "", nil, fmt.Errorf("rewinding upload: %w", err)
	}
	return src, kind, mt, nil
}

// objectName names a stored file <unix millis>-<12 hex digits><ext>, keeping the
// uploaded extension when there is one.
func objectName(now time.Time, original string, mt *mimetype.MIME) (string, error) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = mt.Extension()
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), hex.EncodeToString(suffix), ext), nil
}
