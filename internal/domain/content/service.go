package content

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/utils/idgen"
	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

var (
	ErrKeyRequired      = errors.New("content key is required")
	ErrInvalidVideo     = errors.New("invalid video")
	ErrVideoNotFound    = errors.New("video not found")
	ErrStoreUnavailable = errors.New("content store unavailable")
)

// Service edits the marketing copy and the volunteer story list.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: idgen.NewVideoID,
		log:   log.With().Str("component", "content-service").Logger(),
	}
}

// GetContent returns the whole content map. Read failures yield an empty map.
func (s *Service) GetContent(ctx context.Context) map[string]string {
	values, err := s.store.Content(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("site content unavailable, serving empty map")
		return map[string]string{}
	}
	if values == nil {
		values = map[string]string{}
	}
	return values
}

// SetContent stores one entry and returns the updated map.
func (s *Service) SetContent(ctx context.Context, key, value string) (map[string]string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"content key is required", ErrKeyRequired, "e1a3c5e7-0b2d-4f6a-9c1e-3a5c7e9b1d2f")
	}
	if err := s.store.SetContent(ctx, key, value); err != nil {
		return nil, storeFailure(ctx, "set content", err)
	}
	s.log.Debug().Str("key", key).Msg("content updated")
	return s.GetContent(ctx), nil
}

// ListVideos returns volunteer stories, newest first. Read failures yield an empty list.
func (s *Service) ListVideos(ctx context.Context) []Video {
	videos, err := s.store.Videos(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("videos unavailable, serving empty list")
		return []Video{}
	}
	slices.SortStableFunc(videos, func(a, b Video) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if videos == nil {
		videos = []Video{}
	}
	return videos
}

// AddVideo validates a YouTube link and stores a new story.
func (s *Service) AddVideo(ctx context.Context, title, rawURL string) (*Video, error) {
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)
	if title == "" || rawURL == "" {
		return nil, invalidVideo(ctx, "title and url are required")
	}
	embed, ok := YouTubeEmbedURL(rawURL)
	if !ok {
		return nil, invalidVideo(ctx, "url is not a YouTube watch, share or embed link")
	}

	video := Video{
		ID:        s.newID(),
		Title:     title,
		URL:       rawURL,
		EmbedURL:  embed,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddVideo(ctx, video); err != nil {
		return nil, storeFailure(ctx, "add video", err)
	}
	s.log.Info().Str("video_id", video.ID).Msg("video added")
	return &video, nil
}

// DeleteVideo removes a story by id.
func (s *Service) DeleteVideo(ctx context.Context, id string) error {
	removed, err := s.store.DeleteVideo(ctx, strings.TrimSpace(id))
	if err != nil {
		return storeFailure(ctx, "delete video", err)
	}
	if !removed {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"video not found", ErrVideoNotFound, "f2b4d6f8-1c3e-4a7b-8d2f-4b6d8f0a2c3e", map[string]any{"id": id})
	}
	s.log.Info().Str("video_id", id).Msg("video deleted")
	return nil
}

func invalidVideo(ctx context.Context, msg string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		msg, ErrInvalidVideo, "a3c5e7f9-2d4f-4b8c-9e3a-5c7e9f1b3d4a")
}

func storeFailure(ctx context.Context, op string, err error) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
		op+" failed", errors.Join(ErrStoreUnavailable, err), "b4d6f8a0-3e5a-4c9d-8f4b-6d8f0a2c4e5b",
		map[string]any{"operation": op})
}
