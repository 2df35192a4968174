//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/domain/content"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/auth"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/logger"
	contentrepo "github.com/elseibo-mission/gallery-server/internal/infrastructure/repository/content"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/repository/credentials"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/repository/guestimages"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/storage"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/handlers"
)

var storageSet = wire.NewSet(
	provideRedisStore,
	provideRetryPolicy,
	provideObjectBackend,
	provideObjectStore,
	provideObjectReceiver,
	provideListingCache,
	wire.Bind(new(media.ObjectStore), new(*storage.RetryingStore)),
)

var mediaSet = wire.NewSet(
	guestimages.NewRepository,
	wire.Bind(new(media.GuestImageIndex), new(*guestimages.Repository)),
	media.NewCoordinator,
	media.NewGalleryService,
	wire.Bind(new(handlers.UploadCoordinator), new(*media.Coordinator)),
	wire.Bind(new(handlers.GalleryReader), new(*media.GalleryService)),
)

var accessSet = wire.NewSet(
	auth.NewTokenService,
	wire.Bind(new(access.TokenIssuer), new(*auth.TokenService)),
	credentials.NewRepository,
	wire.Bind(new(access.CredentialStore), new(*credentials.Repository)),
	provideAccessService,
	wire.Bind(new(handlers.AccessService), new(*access.Service)),
)

var contentSet = wire.NewSet(
	contentrepo.NewRepository,
	wire.Bind(new(content.Store), new(*contentrepo.Repository)),
	content.NewService,
	wire.Bind(new(handlers.ContentService), new(*content.Service)),
)

// BuildApplication assembles the gallery API with Wire.
func BuildApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		storageSet,
		mediaSet,
		accessSet,
		contentSet,
		handlers.NewProvider,
		provideReadinessChecks,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}
