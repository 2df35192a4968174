package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/storage"
)

func newLocalObjectsServer(t *testing.T, maxBytes int64) (*testServer, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(&config.Config{
		LocalStoragePath:    t.TempDir(),
		LocalStorageBaseURL: "http://gallery.test/v1/objects",
		LocalSigningKey:     "objects-test-key",
		MaxUploadBytes:      maxBytes,
	}, zerolog.Nop())
	require.NoError(t, err)

	m := newMocks()
	m.receiver = local
	return setupTestServer(m), local
}

func signedPut(t *testing.T, local *storage.LocalStorage, key, contentType, body string) *http.Request {
	t.Helper()
	presigned, err := local.PresignPut(context.Background(), key, contentType, time.Hour)
	require.NoError(t, err)
	u, err := url.Parse(presigned.URL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, u.RequestURI(), strings.NewReader(body))
	for name, value := range presigned.Headers {
		req.Header.Set(name, value)
	}
	return req
}

func TestObjectsHandler_PutThenGet(t *testing.T) {
	server, local := newLocalObjectsServer(t, 1024)

	w := server.send(signedPut(t, local, "guest-uploads/a.jpg", "image/jpeg", "jpeg-bytes"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"key":"guest-uploads/a.jpg","bytes":10}`, w.Body.String())

	exists, err := local.HeadExists(context.Background(), "guest-uploads/a.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	w = server.do(http.MethodGet, "/v1/objects/guest-uploads/a.jpg", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
}

func TestObjectsHandler_RejectsTamperedSignature(t *testing.T) {
	server, local := newLocalObjectsServer(t, 1024)

	req := signedPut(t, local, "guest-uploads/a.jpg", "image/jpeg", "jpeg-bytes")
	req.URL.Path = "/v1/objects/admin-uploads/a.jpg"

	w := server.send(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	exists, err := local.HeadExists(context.Background(), "admin-uploads/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestObjectsHandler_RejectsContentTypeMismatch(t *testing.T) {
	server, local := newLocalObjectsServer(t, 1024)

	req := signedPut(t, local, "guest-uploads/a.jpg", "image/jpeg", "jpeg-bytes")
	req.Header.Set("Content-Type", "video/mp4")

	w := server.send(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestObjectsHandler_RejectsOversizedBody(t *testing.T) {
	server, local := newLocalObjectsServer(t, 4)

	w := server.send(signedPut(t, local, "guest-uploads/big.jpg", "image/jpeg", "more than four bytes"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	exists, err := local.HeadExists(context.Background(), "guest-uploads/big.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestObjectsHandler_GetMissing(t *testing.T) {
	server, _ := newLocalObjectsServer(t, 1024)

	w := server.do(http.MethodGet, "/v1/objects/guest-uploads/none.jpg", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestObjectsRoutesAbsentWithoutLocalBackend(t *testing.T) {
	m := newMocks()
	m.receiver = nil
	server := setupTestServer(m)

	w := server.do(http.MethodGet, "/v1/objects/guest-uploads/a.jpg", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
