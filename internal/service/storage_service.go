package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"notecapture-be/internal/pkg/logger"
	"notecapture-be/pkg/objectstore"

	"github.com/google/uuid"
)

var (
	ErrInvalidFileName = errors.New("invalid file name")
	ErrObjectNotFound  = errors.New("object not found")
)

const ImagePrefix = "images/"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

type IStorageService interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

type storageService struct {
	store  ObjectStore
	logger logger.ILogger
}

func NewStorageService(store ObjectStore, log logger.ILogger) IStorageService {
	return &storageService{
		store:  store,
		logger: log,
	}
}

// Upload stores r under images/<uuid>-<name> and returns that key. The key is
// what notes keep in imageLocation.
func (s *storageService) Upload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	name := sanitizeFileName(fileName)
	if name == "" {
		return "", ErrInvalidFileName
	}

	key := ImagePrefix + uuid.NewString() + "-" + name
	if err := s.store.Put(ctx, key, r); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	s.logger.Info("Storage", "Image uploaded", map[string]interface{}{
		"path": key,
	})
	return key, nil
}

// Open reads a stored object. Unknown and malformed paths are both
// ErrObjectNotFound.
func (s *storageService) Open(path string) (io.ReadCloser, error) {
	rc, err := s.store.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, objectstore.ErrInvalidPath) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return rc, nil
}

func (s *storageService) Remove(ctx context.Context, path string) error {
	return s.store.Remove(ctx, path)
}

// IsImageKey reports whether path names an object under ImagePrefix.
func IsImageKey(path string) bool {
	return strings.HasPrefix(path, ImagePrefix) && len(path) > len(ImagePrefix)
}

func sanitizeFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	base = unsafeFileChars.ReplaceAllString(base, "_")
	return strings.TrimLeft(base, ".")
}
