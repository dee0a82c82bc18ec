package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/anonto42/nano-social/backend/internal/models"
)

// FirebaseStorage uploads to a Firebase Storage bucket.
type FirebaseStorage struct {
	bucket     *storage.BucketHandle
	bucketName string
	now        func() time.Time
}

// NewFirebaseStorage opens bucketName through the Firebase app
func NewFirebaseStorage(ctx context.Context, app *firebase.App, bucketName string) (*FirebaseStorage, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("error opening bucket %s: %w", bucketName, err)
	}
	return &FirebaseStorage{bucket: bucket, bucketName: bucketName, now: time.Now}, nil
}

func (s *FirebaseStorage) Save(ctx context.Context, file *multipart.FileHeader) (models.Media, error) {
	src, kind, mt, err := open(file)
	if err != nil {
		return models.Media{}, err
	}
	defer src.Close()

	name, err := objectName(s.now(), file.Filename, mt)
	if err != nil {
		return models.Media{}, err
	}

	w := s.bucket.Object("uploads/" + name).NewWriter(ctx)
	w.ContentType = mt.String()
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return models.Media{}, fmt.Errorf("uploading %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return models.Media{}, fmt.Errorf("uploading %s: %w", name, err)
	}

	return models.Media{URL: s.publicURL() + "uploads/" + name, Kind: kind}, nil
}

func (s *FirebaseStorage) Delete(ctx context.Context, m models.Media) error {
	object, ok := strings.CutPrefix(m.URL, s.publicURL())
	if !ok || object == "" {
		return fmt.Errorf("deleting %s: %w", m.URL, errForeignMedia)
	}
	if err := s.bucket.Object(object).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting %s: %w", object, err)
	}
	return nil
}

func (s *FirebaseStorage) publicURL() string {
	return "https://storage.googleapis.com/" + s.bucketName + "/"
}
