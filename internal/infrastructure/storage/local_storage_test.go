package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/internal/config"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	cfg := &config.Config{
		LocalStoragePath:    t.TempDir(),
		LocalStorageBaseURL: "http://gallery.test/v1/objects",
		LocalSigningKey:     "test-signing-key",
		MaxUploadBytes:      16,
	}
	store, err := NewLocalStorage(cfg, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestLocalStoragePresignAndReceive(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()
	key := "guest-uploads/abc.jpg"

	presigned, err := store.PresignPut(ctx, key, "image/jpeg", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(presigned.URL, "http://gallery.test/v1/objects/guest-uploads/abc.jpg?"))
	assert.Equal(t, "image/jpeg", presigned.Headers["Content-Type"])

	u, err := url.Parse(presigned.URL)
	require.NoError(t, err)
	contentType, err := store.VerifyUpload(key, u.Query())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	exists, err := store.HeadExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := store.Receive(ctx, key, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)

	exists, err = store.HeadExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "http://gallery.test/v1/objects/guest-uploads/abc.jpg", store.PublicURL(key))
}

func TestLocalStorageVerifyUploadRejectsTampering(t *testing.T) {
	store := newTestLocalStorage(t)
	presigned, err := store.PresignPut(context.Background(), "admin-uploads/a.png", "image/png", time.Minute)
	require.NoError(t, err)
	u, _ := url.Parse(presigned.URL)

	_, err = store.VerifyUpload("admin-uploads/b.png", u.Query())
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	q := u.Query()
	q.Set("content_type", "text/html")
	_, err = store.VerifyUpload("admin-uploads/a.png", q)
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = store.VerifyUpload("admin-uploads/a.png", u.Query())
	assert.ErrorIs(t, err, ErrSignatureExpired)
}

func TestLocalStorageReceiveTooLarge(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	_, err := store.Receive(ctx, "guest-uploads/big.jpg", strings.NewReader(strings.Repeat("x", 17)))
	require.ErrorIs(t, err, ErrObjectTooLarge)

	exists, err := store.HeadExists(ctx, "guest-uploads/big.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	entries, err := os.ReadDir(filepath.Join(store.basePath, "guest-uploads"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorageListAndDelete(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"admin-uploads/a.jpg", "admin-uploads/b.jpg", "guest-uploads/c.jpg"} {
		_, err := store.Receive(ctx, key, strings.NewReader("x"))
		require.NoError(t, err)
	}

	objects, err := store.List(ctx, "admin-uploads/")
	require.NoError(t, err)
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
		assert.False(t, obj.LastModified.IsZero())
	}
	assert.ElementsMatch(t, []string{"admin-uploads/a.jpg", "admin-uploads/b.jpg"}, keys)

	require.NoError(t, store.Delete(ctx, "admin-uploads/a.jpg"))
	require.NoError(t, store.Delete(ctx, "admin-uploads/a.jpg"))

	objects, err = store.List(ctx, "admin-uploads/")
	require.NoError(t, err)
	assert.Len(t, objects, 1)

	empty, err := store.List(ctx, "site-assets/")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"../escape.jpg", "guest-uploads/../../escape.jpg", "guest-uploads/", ""} {
		_, err := store.Receive(ctx, key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidObjectKey, key)
		_, err = store.PresignPut(ctx, key, "image/jpeg", time.Minute)
		assert.ErrorIs(t, err, ErrInvalidObjectKey, key)
	}
}
