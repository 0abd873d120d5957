// Package upload stores client file uploads in an object store and serves
// them back by the generated object name.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// ErrObjectNotFound is returned by ObjectStore implementations for unknown
// object names.
var ErrObjectNotFound = errors.New("upload: object not found")

// ObjectStore is the storage backend surface the upload service needs.
type ObjectStore interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, objectName string) (io.ReadCloser, string, error)
}

// StoredFile describes one accepted upload.
type StoredFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
}

// Service names and stores uploads.
type Service struct {
	store ObjectStore
	log   logging.Logger
	now   func() time.Time
}

// NewService builds an upload service on the given backend.
func NewService(store ObjectStore, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{store: store, log: log.Named("upload"), now: time.Now}
}

// Store persists one upload under a generated object name and returns its
// descriptor.  Empty files are rejected before touching the backend.
func (s *Service) Store(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (*StoredFile, error) {
	if size <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeUploadEmptyFile, "file is empty")
	}

	objectName := s.objectName(originalName)
	if err := s.store.Put(ctx, objectName, r, size, contentType); err != nil {
		s.log.Error("object store put failed",
			logging.String("object", objectName), logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUploadStoreFailure, "store upload")
	}

	s.log.Info("upload stored",
		logging.String("object", objectName),
		logging.Int64("size", size))

	return &StoredFile{
		Filename:     objectName,
		OriginalName: originalName,
		URL:          "/api/files/" + objectName,
		Size:         size,
	}, nil
}

// Fetch returns the stored content and content type for an object name.
func (s *Service) Fetch(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return nil, "", apperrors.New(apperrors.ErrCodeBadRequest, "invalid filename")
	}

	rc, contentType, err := s.store.Get(ctx, filename)
	if errors.Is(err, ErrObjectNotFound) {
		return nil, "", apperrors.New(apperrors.ErrCodeNotFound, "file not found").
			WithDetail("filename=" + filename)
	}
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeUploadStoreFailure, "fetch upload")
	}
	return rc, contentType, nil
}

// objectName builds "uuid_yyyymmdd_hhmmss.ext" so names never collide and
// sort roughly by upload time within a uuid prefix listing.
func (s *Service) objectName(originalName string) string {
	ext := path.Ext(originalName)
	return fmt.Sprintf("%s_%s%s", uuid.NewString(), s.now().Format("20060102_150405"), ext)
}
