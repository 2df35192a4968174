package handlers

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/domain/content"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
)

// UploadCoordinator is the upload and delete side of the gallery.
type UploadCoordinator interface {
	RequestUploadURL(ctx context.Context, req media.UploadRequest) (*media.UploadTicket, error)
	FinalizeUpload(ctx context.Context, req media.FinalizeRequest) (*media.FinalizeResult, error)
	DeleteImage(ctx context.Context, class media.UploadClass, filename string) error
}

// GalleryReader answers listing requests.
type GalleryReader interface {
	ListAdminGallery(ctx context.Context) ([]string, error)
	ListGuestGallery(ctx context.Context) ([]media.GuestImage, error)
}

// AccessService handles logins and guest passwords.
type AccessService interface {
	Login(ctx context.Context, username, password string, role access.Role) (*access.Session, error)
	ListGuestPasswords(ctx context.Context) ([]string, error)
	AddGuestPassword(ctx context.Context, password string) error
	RemoveGuestPassword(ctx context.Context, password string) error
}

// ContentService edits site copy and volunteer stories.
type ContentService interface {
	GetContent(ctx context.Context) map[string]string
	SetContent(ctx context.Context, key, value string) (map[string]string, error)
	ListVideos(ctx context.Context) []content.Video
	AddVideo(ctx context.Context, title, rawURL string) (*content.Video, error)
	DeleteVideo(ctx context.Context, id string) error
}

// ObjectReceiver is the local storage backend's upload and download surface.
type ObjectReceiver interface {
	VerifyUpload(key string, query url.Values) (string, error)
	Receive(ctx context.Context, key string, body io.Reader) (int64, error)
	Open(key string) (*os.File, error)
}
