package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/metrics"
)

const (
	guestIndexLock    = "lock:guest-images"
	guestIndexLockTTL = 10 * time.Second
)

var tracer = otel.Tracer("gallery-server/media")

// Coordinator mediates direct-to-storage uploads and keeps the metadata index consistent
// with what is present in the object store.
type Coordinator struct {
	store      ObjectStore
	index      GuestImageIndex
	cache      ListingCache
	presignTTL time.Duration
	newID      func() string
	log        zerolog.Logger
}

func NewCoordinator(cfg *config.Config, store ObjectStore, index GuestImageIndex, cache ListingCache, log zerolog.Logger) *Coordinator {
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Coordinator{
		store:      store,
		index:      index,
		cache:      cache,
		presignTTL: ttl,
		newID:      uuid.NewString,
		log:        log.With().Str("component", "upload-coordinator").Logger(),
	}
}

// RequestUploadURL issues a presigned PUT for a fresh key under the class prefix.
// Nothing is recorded: the client may never upload.
func (c *Coordinator) RequestUploadURL(ctx context.Context, req UploadRequest) (*UploadTicket, error) {
	ctx, span := tracer.Start(ctx, "media.RequestUploadURL", trace.WithAttributes(
		attribute.String("upload.class", string(req.Class)),
	))
	defer span.End()

	prefix := req.Class.Prefix()
	if prefix == "" {
		return nil, invalidUploadClass(ctx, req.Class)
	}

	contentType := NormalizeContentType(req.ContentType)
	if contentType != "" && !IsAllowedContentType(contentType) {
		return nil, invalidMediaType(ctx, contentType)
	}

	ext := resolveExtension(req.Filename, contentType)
	if contentType == "" {
		contentType = ContentTypeForExtension(ext)
	}

	key := fmt.Sprintf("%s/%s.%s", prefix, c.newID(), ext)
	presigned, err := c.store.PresignPut(ctx, key, contentType, c.presignTTL)
	if err != nil {
		span.RecordError(err)
		return nil, storeUnavailable(ctx, "presign", err)
	}

	c.log.Debug().Str("key", key).Str("content_type", contentType).Msg("issued upload url")

	return &UploadTicket{
		Key:         key,
		UploadURL:   presigned.URL,
		PublicURL:   c.store.PublicURL(key),
		ContentType: contentType,
		Headers:     presigned.Headers,
		ExpiresIn:   int(c.presignTTL.Seconds()),
	}, nil
}

// FinalizeUpload records an upload once its bytes are confirmed present in the store.
// Repeating the call for the same key is harmless: guest records are deduplicated by filename.
func (c *Coordinator) FinalizeUpload(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error) {
	ctx, span := tracer.Start(ctx, "media.FinalizeUpload", trace.WithAttributes(
		attribute.String("upload.class", string(req.Class)),
		attribute.String("upload.key", req.Key),
	))
	defer span.End()

	prefix := req.Class.Prefix()
	if prefix == "" {
		return nil, invalidUploadClass(ctx, req.Class)
	}

	key := strings.TrimSpace(req.Key)
	filename, ok := filenameInPrefix(key, prefix)
	if !ok {
		return nil, invalidKey(ctx, key)
	}

	// Single check; a miss is reported to the client rather than retried here.
	exists, err := c.store.HeadExists(ctx, key)
	if err != nil {
		span.RecordError(err)
		return nil, storeUnavailable(ctx, "head", err)
	}
	if !exists {
		return nil, uploadNotVerified(ctx, key)
	}

	result := &FinalizeResult{
		Key:      key,
		Filename: filename,
		URL:      c.store.PublicURL(key),
		Class:    req.Class,
	}

	if req.Class == ClassGuest {
		owner := strings.TrimSpace(req.Owner)
		if owner == "" {
			owner = DefaultOwner
		}
		resolved, err := c.recordGuestImage(ctx, GuestImageRecord{Filename: filename, Owner: owner})
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		result.Owner = resolved
	}

	if cacheKey, ok := req.Class.CacheKey(); ok {
		c.invalidate(ctx, cacheKey)
	}

	c.log.Info().
		Str("key", key).
		Str("class", string(req.Class)).
		Str("owner", result.Owner).
		Msg("upload finalized")

	return result, nil
}

// DeleteImage removes an object and, for guest images, its metadata record.
// Metadata is only touched after the store delete succeeded.
func (c *Coordinator) DeleteImage(ctx context.Context, class UploadClass, filename string) error {
	ctx, span := tracer.Start(ctx, "media.DeleteImage", trace.WithAttributes(
		attribute.String("upload.class", string(class)),
		attribute.String("upload.filename", filename),
	))
	defer span.End()

	prefix := class.Prefix()
	if prefix == "" {
		return invalidUploadClass(ctx, class)
	}
	if !validFilename(filename) {
		return invalidKey(ctx, filename)
	}
	key := prefix + "/" + filename

	exists, err := c.store.HeadExists(ctx, key)
	if err != nil {
		span.RecordError(err)
		return storeUnavailable(ctx, "head", err)
	}
	if !exists {
		return imageNotFound(ctx, key)
	}
	if err := c.store.Delete(ctx, key); err != nil {
		span.RecordError(err)
		return storeUnavailable(ctx, "delete", err)
	}

	if class == ClassGuest {
		err := c.withGuestIndexLock(ctx, func() error {
			return c.index.RemoveGuestImage(ctx, filename)
		})
		if err != nil {
			// The object is gone, so listings already omit it. The stale record is counted for cleanup.
			span.RecordError(err)
			metrics.RecordGuestRecordCleanupFailure()
			c.log.Error().Err(err).Str("filename", filename).Msg("failed to remove guest image record")
		}
	}

	// Both listings are dropped on every delete.
	c.invalidate(ctx, CacheKeyAdminGallery, CacheKeyGuestGallery)

	c.log.Info().Str("key", key).Msg("image deleted")
	return nil
}

func (c *Coordinator) recordGuestImage(ctx context.Context, record GuestImageRecord) (string, error) {
	resolved := record.Owner
	err := c.withGuestIndexLock(ctx, func() error {
		records, err := c.index.GuestImages(ctx)
		if err != nil {
			return indexUnavailable(ctx, "read", err)
		}
		for _, existing := range records {
			if existing.Filename == record.Filename {
				resolved = existing.Owner
				return nil
			}
		}
		if err := c.index.AppendGuestImage(ctx, record); err != nil {
			return indexUnavailable(ctx, "append", err)
		}
		return nil
	})
	return resolved, err
}

func (c *Coordinator) withGuestIndexLock(ctx context.Context, fn func() error) error {
	locker, ok := c.index.(Locker)
	if !ok {
		return fn()
	}
	ran := false
	err := locker.WithLock(ctx, guestIndexLock, guestIndexLockTTL, func() error {
		ran = true
		return fn()
	})
	if err != nil && !ran {
		c.log.Warn().Err(err).Msg("guest index lock unavailable, continuing unguarded")
		return fn()
	}
	return err
}

func (c *Coordinator) invalidate(ctx context.Context, keys ...string) {
	if err := c.cache.Invalidate(ctx, keys...); err != nil {
		c.log.Error().Err(err).Strs("keys", keys).Msg("failed to invalidate listing cache")
	}
}

func filenameInPrefix(key, prefix string) (string, bool) {
	rest, found := strings.CutPrefix(key, prefix+"/")
	if !found || !validFilename(rest) {
		return "", false
	}
	return rest, true
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && path.Base(name) == name
}

// IsStoreUnavailable reports whether err came from a failed object store call.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
