package handlers

import (
	"github.com/rs/zerolog"
)

// Provider wires HTTP handlers.
type Provider struct {
	Uploads *UploadHandler
	Gallery *GalleryHandler
	Access  *AccessHandler
	Content *ContentHandler
	// Objects is nil unless the local storage backend is active.
	Objects *ObjectsHandler
}

func NewProvider(
	coordinator UploadCoordinator,
	gallery GalleryReader,
	accessService AccessService,
	contentService ContentService,
	receiver ObjectReceiver,
	log zerolog.Logger,
) *Provider {
	provider := &Provider{
		Uploads: NewUploadHandler(coordinator, log),
		Gallery: NewGalleryHandler(gallery),
		Access:  NewAccessHandler(accessService, log),
		Content: NewContentHandler(contentService),
	}
	if receiver != nil {
		provider.Objects = NewObjectsHandler(receiver, log)
	}
	return provider
}
