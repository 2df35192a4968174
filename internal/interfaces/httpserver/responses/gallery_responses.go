package responses

import (
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
)

// GalleryResponse is one page of a newest-first gallery listing.
type GalleryResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// BuildGalleryResponse slices items for the requested page.
func BuildGalleryResponse[T any](items []T, page, pageSize int) *GalleryResponse[T] {
	if pageSize <= 0 {
		page, pageSize = 1, len(items)
	} else if page < 1 {
		page = 1
	}
	return &GalleryResponse[T]{
		Items:    media.Paginate(items, page, pageSize),
		Total:    len(items),
		Page:     page,
		PageSize: pageSize,
	}
}

// DeleteResponse acknowledges a removed image.
type DeleteResponse struct {
	Deleted  bool   `json:"deleted"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
}

// ContentResponse carries the full site content map.
type ContentResponse struct {
	Content map[string]string `json:"content"`
}

// GuestPasswordsResponse lists the guest password set.
type GuestPasswordsResponse struct {
	Passwords []string `json:"passwords"`
}
