package guestimages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/kvstore"
)

// Key is the Redis list holding guest image records in upload order.
const Key = "guest_images"

// Repository stores guest image records as JSON entries of a Redis list.
type Repository struct {
	store *kvstore.RedisStore
	log   zerolog.Logger
}

func NewRepository(store *kvstore.RedisStore, log zerolog.Logger) *Repository {
	return &Repository{
		store: store,
		log:   log.With().Str("component", "guest-image-repository").Logger(),
	}
}

// GuestImages returns every well-formed record in insertion order. Entries that do not decode
// or lack a filename are skipped.
func (r *Repository) GuestImages(ctx context.Context) ([]media.GuestImageRecord, error) {
	raw, err := r.store.Client().LRange(ctx, Key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read guest images: %w", err)
	}

	records := make([]media.GuestImageRecord, 0, len(raw))
	for _, entry := range raw {
		record, ok := decode(entry)
		if !ok {
			r.log.Warn().Str("entry", entry).Msg("skipping malformed guest image record")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// AppendGuestImage pushes a record to the tail of the list.
func (r *Repository) AppendGuestImage(ctx context.Context, record media.GuestImageRecord) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode guest image: %w", err)
	}
	if err := r.store.Client().RPush(ctx, Key, encoded).Err(); err != nil {
		return fmt.Errorf("append guest image: %w", err)
	}
	return nil
}

// RemoveGuestImage removes every entry recorded for filename, matching the stored entry exactly.
func (r *Repository) RemoveGuestImage(ctx context.Context, filename string) error {
	client := r.store.Client()
	raw, err := client.LRange(ctx, Key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read guest images: %w", err)
	}

	pipe := client.TxPipeline()
	queued := 0
	for _, entry := range raw {
		if record, ok := decode(entry); ok && record.Filename == filename {
			pipe.LRem(ctx, Key, 0, entry)
			queued++
		}
	}
	if queued == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove guest image: %w", err)
	}
	return nil
}

// Import appends records whose filename is not yet present. It returns how many were added.
func (r *Repository) Import(ctx context.Context, records []media.GuestImageRecord) (int, error) {
	added := 0
	err := r.WithLock(ctx, "lock:guest-images", 30*time.Second, func() error {
		existing, err := r.GuestImages(ctx)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing))
		for _, rec := range existing {
			seen[rec.Filename] = true
		}
		for _, rec := range records {
			rec.Filename = strings.TrimSpace(rec.Filename)
			if rec.Filename == "" || seen[rec.Filename] {
				continue
			}
			if strings.TrimSpace(rec.Owner) == "" {
				rec.Owner = media.DefaultOwner
			}
			if err := r.AppendGuestImage(ctx, rec); err != nil {
				return err
			}
			seen[rec.Filename] = true
			added++
		}
		return nil
	})
	return added, err
}

// WithLock serializes read-modify-write sequences on the list.
func (r *Repository) WithLock(ctx context.Context, name string, ttl time.Duration, fn func() error) error {
	return r.store.WithLock(ctx, name, ttl, fn)
}

func decode(entry string) (media.GuestImageRecord, bool) {
	var record media.GuestImageRecord
	if err := json.Unmarshal([]byte(entry), &record); err != nil {
		return record, false
	}
	if strings.TrimSpace(record.Filename) == "" {
		return record, false
	}
	return record, true
}
