package content

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

type memoryStore struct {
	values  map[string]string
	videos  []Video
	readErr error
}

func (m *memoryStore) Content(context.Context) (map[string]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return maps.Clone(m.values), nil
}

func (m *memoryStore) SetContent(_ context.Context, key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *memoryStore) Videos(context.Context) ([]Video, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return slices.Clone(m.videos), nil
}

func (m *memoryStore) AddVideo(_ context.Context, v Video) error {
	m.videos = append(m.videos, v)
	return nil
}

func (m *memoryStore) DeleteVideo(_ context.Context, id string) (bool, error) {
	i := slices.IndexFunc(m.videos, func(v Video) bool { return v.ID == id })
	if i < 0 {
		return false, nil
	}
	m.videos = slices.Delete(m.videos, i, i+1)
	return true, nil
}

func newTestService(store Store) *Service {
	svc := NewService(store, zerolog.Nop())
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	seq := 0
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("vid_%d", seq)
	}
	return svc
}

func TestContentRoundTrip(t *testing.T) {
	svc := newTestService(&memoryStore{})
	ctx := context.Background()

	assert.Equal(t, map[string]string{}, svc.GetContent(ctx))

	updated, err := svc.SetContent(ctx, "home.title", "Bringing hope")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"home.title": "Bringing hope"}, updated)

	_, err = svc.SetContent(ctx, "  ", "x")
	require.ErrorIs(t, err, ErrKeyRequired)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestContentReadFailureServesEmptyMap(t *testing.T) {
	svc := newTestService(&memoryStore{readErr: assert.AnError})
	assert.Equal(t, map[string]string{}, svc.GetContent(context.Background()))
	assert.Equal(t, []Video{}, svc.ListVideos(context.Background()))
}

func TestVideos(t *testing.T) {
	svc := newTestService(&memoryStore{})
	ctx := context.Background()

	first, err := svc.AddVideo(ctx, "Clinic day", "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", first.EmbedURL)

	second, err := svc.AddVideo(ctx, "Build week", "https://youtu.be/abcDEF12345")
	require.NoError(t, err)

	videos := svc.ListVideos(ctx)
	require.Len(t, videos, 2)
	assert.Equal(t, second.ID, videos[0].ID)
	assert.Equal(t, first.ID, videos[1].ID)

	require.NoError(t, svc.DeleteVideo(ctx, first.ID))
	err = svc.DeleteVideo(ctx, first.ID)
	require.ErrorIs(t, err, ErrVideoNotFound)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Len(t, svc.ListVideos(ctx), 1)
}

func TestAddVideoValidation(t *testing.T) {
	svc := newTestService(&memoryStore{})
	for _, tc := range []struct{ title, url string }{
		{"", "https://youtu.be/abcDEF12345"},
		{"Title", ""},
		{"Title", "https://vimeo.com/123456"},
		{"Title", "not a url"},
	} {
		_, err := svc.AddVideo(context.Background(), tc.title, tc.url)
		assert.ErrorIs(t, err, ErrInvalidVideo, "%q %q", tc.title, tc.url)
	}
}

func TestYouTubeEmbedURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=30", "https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://youtube.com/shorts/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/", "", false},
		{"https://notyoutube.com/watch?v=dQw4w9WgXcQ", "", false},
		{"ftp://youtu.be/dQw4w9WgXcQ", "", false},
	}
	for _, tt := range tests {
		got, ok := YouTubeEmbedURL(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("YouTubeEmbedURL(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
