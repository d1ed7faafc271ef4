package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notecapture-be/internal/bootstrap"
	"notecapture-be/internal/config"
	"notecapture-be/internal/dto"
	"notecapture-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalServer(t *testing.T) (*fiber.App, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "server-secret")
	dir := t.TempDir()

	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			LiveLogFilePath:    filepath.Join(dir, "live.log"),
			CorsAllowedOrigins: "http://localhost:5173",
		},
		Storage: config.StorageConfig{
			Mode:            config.StorageModeLocal,
			LocalKVBackend:  config.KVBackendMemory,
			ObjectStoreRoot: filepath.Join(dir, "uploads"),
			UploadMaxBytes:  1024 * 1024,
			DeleteWindow:    50 * time.Millisecond,
		},
	}

	container, err := bootstrap.NewContainer(nil, cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, container.Start(ctx))
	t.Cleanup(func() {
		cancel()
		container.Close()
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	return New(cfg, container).GetApp(), token
}

func call(t *testing.T, app *fiber.App, req *http.Request, token string, out interface{}) int {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRemoteModeRequiresDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			LogFilePath:     filepath.Join(dir, "app.log"),
			LiveLogFilePath: filepath.Join(dir, "live.log"),
		},
		Storage: config.StorageConfig{Mode: config.StorageModeRemote, ObjectStoreRoot: filepath.Join(dir, "uploads")},
	}

	_, err := bootstrap.NewContainer(nil, cfg)
	assert.Error(t, err)
}

func TestNoteLifecycle(t *testing.T) {
	app, token := newLocalServer(t)

	// Upload an image.
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="milk.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/storage/v1/images", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	var uploaded serverutils.BaseResponse[dto.UploadImageResponse]
	require.Equal(t, http.StatusCreated, call(t, app, req, token, &uploaded))
	path := uploaded.Data.Path

	// The object is served from the store.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/"+path, nil))
	require.NoError(t, err)
	served, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jpeg bytes", string(served))

	// Create a note referencing it.
	req = httptest.NewRequest(http.MethodPost, "/api/note/v1",
		strings.NewReader(`{"name":"Milk","description":"2 litres","imageLocation":"`+path+`"}`))
	req.Header.Set("Content-Type", "application/json")
	var created serverutils.BaseResponse[dto.NoteResponse]
	require.Equal(t, http.StatusCreated, call(t, app, req, token, &created))

	var list serverutils.BaseResponse[[]dto.NoteResponse]
	require.Equal(t, http.StatusOK, call(t, app, httptest.NewRequest(http.MethodGet, "/api/note/v1", nil), token, &list))
	require.Len(t, list.Data, 1)

	// Delete cascades to the object, and the trigger reports it.
	var deleted serverutils.BaseResponse[dto.NoteResponse]
	require.Equal(t, http.StatusOK, call(t, app,
		httptest.NewRequest(http.MethodDelete, "/api/note/v1/"+created.Data.Id.String(), nil), token, &deleted))
	assert.Equal(t, *created.Data.Id, *deleted.Data.Id)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/uploads/"+path, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/diagnostics/logs?level=INFO&limit=50", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, 5000)
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var logs serverutils.BaseResponse[[]dto.LogListResponse]
		if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
			return false
		}
		for _, l := range logs.Data {
			if l.Message == "Deleted ["+path+"]" {
				return true
			}
		}
		return false
	}, 3*time.Second, 50*time.Millisecond)
}
