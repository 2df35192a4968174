package content

import (
	"context"
	"time"
)

// Video is a volunteer story hosted on YouTube.
type Video struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	EmbedURL  string    `json:"embedUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists the site content map and the volunteer video list.
type Store interface {
	Content(ctx context.Context) (map[string]string, error)
	SetContent(ctx context.Context, key, value string) error
	Videos(ctx context.Context) ([]Video, error)
	AddVideo(ctx context.Context, video Video) error
	DeleteVideo(ctx context.Context, id string) (bool, error)
}
