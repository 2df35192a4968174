package media

import (
	"context"
	"time"
)

// ObjectStore is the bucket the gallery reads from and clients write to.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (*PresignedPut, error)
	HeadExists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}

// GuestImageIndex is the ordered collection of guest image records in the metadata index.
type GuestImageIndex interface {
	GuestImages(ctx context.Context) ([]GuestImageRecord, error)
	AppendGuestImage(ctx context.Context, record GuestImageRecord) error
	RemoveGuestImage(ctx context.Context, filename string) error
}

// Locker serializes read-modify-write sequences on the metadata index.
// Index implementations that can lock implement it alongside GuestImageIndex.
type Locker interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func() error) error
}

// ListingCache memoizes gallery listings. Entries are considered stale once older than the
// cache's TTL; Invalidate removes them immediately.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Invalidate(ctx context.Context, keys ...string) error
}
