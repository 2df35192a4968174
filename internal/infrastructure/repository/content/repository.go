package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	domain "github.com/elseibo-mission/gallery-server/internal/domain/content"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/kvstore"
)

const (
	// ContentKey is the Redis hash of site content entries.
	ContentKey = "site_content"
	// VideosKey is the Redis list of volunteer video stories.
	VideosKey = "volunteer_videos"
)

// Repository implements content.Store on Redis.
type Repository struct {
	store *kvstore.RedisStore
	log   zerolog.Logger
}

func NewRepository(store *kvstore.RedisStore, log zerolog.Logger) *Repository {
	return &Repository{
		store: store,
		log:   log.With().Str("component", "content-repository").Logger(),
	}
}

func (r *Repository) Content(ctx context.Context) (map[string]string, error) {
	values, err := r.store.Client().HGetAll(ctx, ContentKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read site content: %w", err)
	}
	return values, nil
}

func (r *Repository) SetContent(ctx context.Context, key, value string) error {
	if err := r.store.Client().HSet(ctx, ContentKey, key, value).Err(); err != nil {
		return fmt.Errorf("write site content: %w", err)
	}
	return nil
}

// Import writes every entry of values in one round trip.
func (r *Repository) Import(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	pairs := make([]any, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	if err := r.store.Client().HSet(ctx, ContentKey, pairs...).Err(); err != nil {
		return fmt.Errorf("import site content: %w", err)
	}
	return nil
}

func (r *Repository) Videos(ctx context.Context) ([]domain.Video, error) {
	raw, err := r.store.Client().LRange(ctx, VideosKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read videos: %w", err)
	}
	videos := make([]domain.Video, 0, len(raw))
	for _, entry := range raw {
		var v domain.Video
		if err := json.Unmarshal([]byte(entry), &v); err != nil || v.ID == "" {
			r.log.Warn().Str("entry", entry).Msg("skipping malformed video entry")
			continue
		}
		videos = append(videos, v)
	}
	return videos, nil
}

func (r *Repository) AddVideo(ctx context.Context, video domain.Video) error {
	encoded, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("encode video: %w", err)
	}
	if err := r.store.Client().RPush(ctx, VideosKey, encoded).Err(); err != nil {
		return fmt.Errorf("add video: %w", err)
	}
	return nil
}

func (r *Repository) DeleteVideo(ctx context.Context, id string) (bool, error) {
	client := r.store.Client()
	raw, err := client.LRange(ctx, VideosKey, 0, -1).Result()
	if err != nil {
		return false, fmt.Errorf("read videos: %w", err)
	}
	for _, entry := range raw {
		var v domain.Video
		if json.Unmarshal([]byte(entry), &v) == nil && v.ID == id {
			removed, err := client.LRem(ctx, VideosKey, 1, entry).Result()
			if err != nil {
				return false, fmt.Errorf("delete video: %w", err)
			}
			return removed > 0, nil
		}
	}
	return false, nil
}
