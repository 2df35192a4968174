package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/metrics"
)

var (
	ErrSignatureInvalid = errors.New("upload signature is invalid")
	ErrSignatureExpired = errors.New("upload signature has expired")
	ErrObjectTooLarge   = errors.New("object exceeds the upload size limit")
	ErrInvalidObjectKey = errors.New("invalid object key")
	ErrObjectNotFound   = errors.New("object not found")
)

// LocalStorage keeps gallery objects on the local filesystem for development. Its presigned
// URLs point back at this server's object endpoint and carry an HMAC signature.
type LocalStorage struct {
	basePath   string
	baseURL    string
	signingKey []byte
	maxBytes   int64
	now        func() time.Time
	log        zerolog.Logger
}

// NewLocalStorage creates a new local filesystem storage backend.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	baseURL := cfg.LocalStorageBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d/v1/objects", cfg.HTTPPort)
	}

	storage := &LocalStorage{
		basePath:   basePath,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		signingKey: []byte(cfg.LocalSigningKey),
		maxBytes:   cfg.MaxUploadBytes,
		now:        time.Now,
		log:        logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", storage.baseURL).
		Msg("local storage initialized")

	return storage, nil
}

func (l *LocalStorage) fullPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || strings.HasSuffix(key, "/") || clean != "/"+key {
		return "", ErrInvalidObjectKey
	}
	return filepath.Join(l.basePath, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// List walks the directory tree under prefix.
func (l *LocalStorage) List(ctx context.Context, prefix string) ([]media.ObjectInfo, error) {
	start := time.Now()
	root := filepath.Join(l.basePath, filepath.FromSlash(strings.TrimSuffix(prefix, "/")))

	var objects []media.ObjectInfo
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, media.ObjectInfo{Key: key, LastModified: info.ModTime().UTC()})
		}
		return nil
	})
	l.record("list", err, start)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return objects, nil
}

// Delete removes the file. Missing files are not an error.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	start := time.Now()
	full, err := l.fullPath(key)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
	}
	l.record("delete", err, start)
	return err
}

// PresignPut returns a signed URL for the server's PUT /v1/objects endpoint.
func (l *LocalStorage) PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (*media.PresignedPut, error) {
	if _, err := l.fullPath(key); err != nil {
		return nil, err
	}
	expires := l.now().Add(ttl).Unix()
	query := url.Values{}
	query.Set("expires", strconv.FormatInt(expires, 10))
	query.Set("content_type", contentType)
	query.Set("signature", l.sign(key, contentType, expires))

	return &media.PresignedPut{
		URL:     l.baseURL + "/" + escapeKey(key) + "?" + query.Encode(),
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}

// HeadExists reports whether a regular file exists at key.
func (l *LocalStorage) HeadExists(ctx context.Context, key string) (bool, error) {
	full, err := l.fullPath(key)
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// PublicURL returns the URL the object is served from.
func (l *LocalStorage) PublicURL(key string) string {
	return l.baseURL + "/" + escapeKey(key)
}

// VerifyUpload checks the signature and expiry that PresignPut placed on the URL.
func (l *LocalStorage) VerifyUpload(key string, query url.Values) (string, error) {
	expires, err := strconv.ParseInt(query.Get("expires"), 10, 64)
	if err != nil {
		return "", ErrSignatureInvalid
	}
	contentType := query.Get("content_type")
	want := l.sign(key, contentType, expires)
	got := query.Get("signature")
	if !hmac.Equal([]byte(want), []byte(got)) {
		return "", ErrSignatureInvalid
	}
	if l.now().Unix() > expires {
		return "", ErrSignatureExpired
	}
	return contentType, nil
}

// Receive writes body to key, refusing anything larger than the configured limit.
// The file only becomes visible once fully written.
func (l *LocalStorage) Receive(ctx context.Context, key string, body io.Reader) (int64, error) {
	full, err := l.fullPath(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	limit := l.maxBytes
	if limit <= 0 {
		limit = 20 * 1024 * 1024
	}
	written, err := io.Copy(tmp, io.LimitReader(body, limit+1))
	closeErr := tmp.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("failed to write file: %w", closeErr)
	}
	if written > limit {
		return 0, ErrObjectTooLarge
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return 0, fmt.Errorf("failed to store file: %w", err)
	}

	metrics.RecordLocalUpload(written)
	l.log.Debug().
		Str("key", key).
		Int64("bytes", written).
		Msg("file uploaded to local storage")
	return written, nil
}

// Open returns the stored file for serving.
func (l *LocalStorage) Open(key string) (*os.File, error) {
	full, err := l.fullPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return file, err
}

// Health checks the base directory is reachable.
func (l *LocalStorage) Health(ctx context.Context) error {
	_, err := os.Stat(l.basePath)
	return err
}

func (l *LocalStorage) sign(key, contentType string, expires int64) string {
	mac := hmac.New(sha256.New, l.signingKey)
	fmt.Fprintf(mac, "PUT\n%s\n%s\n%d", key, contentType, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func (l *LocalStorage) record(operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
		l.log.Error().Err(err).Str("operation", operation).Msg("local storage operation failed")
	}
	metrics.RecordStoreOperation(operation, status, time.Since(start).Seconds())
}
