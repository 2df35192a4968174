package media

import (
	"cmp"
	"context"
	"encoding/json"
	"path"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// GalleryService answers listing requests with a cache-or-compute read over the object store.
type GalleryService struct {
	store ObjectStore
	index GuestImageIndex
	cache ListingCache
	log   zerolog.Logger
}

func NewGalleryService(store ObjectStore, index GuestImageIndex, cache ListingCache, log zerolog.Logger) *GalleryService {
	return &GalleryService{
		store: store,
		index: index,
		cache: cache,
		log:   log.With().Str("component", "gallery-service").Logger(),
	}
}

// ListAdminGallery returns public URLs of admin uploads, newest first.
func (s *GalleryService) ListAdminGallery(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "media.ListAdminGallery")
	defer span.End()

	return cacheOrCompute(ctx, s, CacheKeyAdminGallery, func() ([]string, error) {
		objects, err := s.listNewestFirst(ctx, ClassAdmin)
		if err != nil {
			return nil, err
		}
		urls := make([]string, 0, len(objects))
		for _, obj := range objects {
			urls = append(urls, s.store.PublicURL(obj.Key))
		}
		return urls, nil
	})
}

// ListGuestGallery returns guest uploads, newest first, each enriched with its owner.
func (s *GalleryService) ListGuestGallery(ctx context.Context) ([]GuestImage, error) {
	ctx, span := tracer.Start(ctx, "media.ListGuestGallery")
	defer span.End()

	return cacheOrCompute(ctx, s, CacheKeyGuestGallery, func() ([]GuestImage, error) {
		objects, err := s.listNewestFirst(ctx, ClassGuest)
		if err != nil {
			return nil, err
		}

		owners := make(map[string]string)
		records, err := s.index.GuestImages(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("guest image records unavailable, owners reported as unknown")
		}
		for _, record := range records {
			if _, seen := owners[record.Filename]; !seen {
				owners[record.Filename] = record.Owner
			}
		}

		images := make([]GuestImage, 0, len(objects))
		for _, obj := range objects {
			filename := path.Base(obj.Key)
			owner, ok := owners[filename]
			if !ok {
				owner = UnknownOwner
			}
			images = append(images, GuestImage{
				URL:      s.store.PublicURL(obj.Key),
				Filename: filename,
				Owner:    owner,
			})
		}
		return images, nil
	})
}

func (s *GalleryService) listNewestFirst(ctx context.Context, class UploadClass) ([]ObjectInfo, error) {
	prefix := class.Prefix() + "/"
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, storeUnavailable(ctx, "list", err)
	}

	files := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		// Skip the directory placeholder some consoles create.
		if obj.Key == prefix || strings.HasSuffix(obj.Key, "/") {
			continue
		}
		files = append(files, obj)
	}

	slices.SortStableFunc(files, func(a, b ObjectInfo) int {
		if c := b.LastModified.Compare(a.LastModified); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return files, nil
}

func cacheOrCompute[T any](ctx context.Context, s *GalleryService, key string, compute func() (T, error)) (T, error) {
	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("cache_key", key).Msg("listing cache read failed, recomputing")
	}
	if hit {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.log.Warn().Str("cache_key", key).Msg("discarding undecodable cache entry")
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("cache_key", key).Msg("failed to encode listing")
		return value, nil
	}
	if err := s.cache.Set(ctx, key, encoded); err != nil {
		s.log.Error().Err(err).Str("cache_key", key).Msg("failed to cache listing")
	}
	return value, nil
}

// Paginate returns the 1-based page of items. A non-positive pageSize returns everything.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	pages := len(items) / pageSize
	if len(items)%pageSize != 0 {
		pages++
	}
	if page-1 >= pages {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end]
}
