package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"notecapture-be/pkg/objectstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageServiceUpload(t *testing.T) {
	store, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := NewStorageService(store, &recordingLogger{})
	ctx := context.Background()

	key, err := svc.Upload(ctx, "my photo.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, ImagePrefix))
	assert.True(t, strings.HasSuffix(key, "-my_photo.jpg"))

	f, err := store.Open(key)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	again, err := svc.Upload(ctx, "my photo.jpg", strings.NewReader("other"))
	require.NoError(t, err)
	assert.NotEqual(t, key, again)

	require.NoError(t, svc.Remove(ctx, key))
	_, err = os.Stat(filepath.Join(store.Root(), filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestStorageServiceOpen(t *testing.T) {
	store, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := NewStorageService(store, &recordingLogger{})
	ctx := context.Background()

	key, err := svc.Upload(ctx, "milk.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	rc, err := svc.Open(key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, svc.Remove(ctx, key))

	for _, path := range []string{key, "images", "images/", "../outside.jpg", ""} {
		_, err := svc.Open(path)
		assert.ErrorIs(t, err, ErrObjectNotFound, path)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":            "photo.jpg",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\pic.png`:  "pic.png",
		"summer holiday!.jpeg": "summer_holiday_.jpeg",
		".hidden":              "hidden",
		"..":                   "",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFileName(in), in)
	}
}

func TestStorageServiceRejectsEmptyName(t *testing.T) {
	store, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = NewStorageService(store, &recordingLogger{}).Upload(context.Background(), "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFileName)
}
