package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/domain/retry"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/cache"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/kvstore"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/storage"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/handlers"
)

// objectBackend is the configured object store plus what the HTTP layer needs from it.
type objectBackend struct {
	store    *storage.RetryingStore
	receiver handlers.ObjectReceiver
}

func provideRedisStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*kvstore.RedisStore, func(), error) {
	store, err := kvstore.NewRedisStore(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
	return store, cleanup, nil
}

func provideRetryPolicy(cfg *config.Config) retry.Policy {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.StoreRetryMax
	if cfg.StoreRetryDelay > 0 {
		policy.InitialDelay = cfg.StoreRetryDelay
	}
	return policy
}

// provideObjectBackend creates the appropriate storage backend based on configuration and wraps
// it with the retry policy.
func provideObjectBackend(ctx context.Context, cfg *config.Config, policy retry.Policy, log zerolog.Logger) (*objectBackend, error) {
	if cfg.IsLocalStorage() {
		local, err := storage.NewLocalStorage(cfg, log)
		if err != nil {
			return nil, err
		}
		return &objectBackend{
			store:    storage.NewRetryingStore(local, policy, log),
			receiver: local,
		}, nil
	}

	s3Storage, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &objectBackend{
		store: storage.NewRetryingStore(s3Storage, policy, log),
	}, nil
}

func provideListingCache(cfg *config.Config, redisStore *kvstore.RedisStore, log zerolog.Logger) (media.ListingCache, func()) {
	if cfg.IsMemoryCache() {
		memory := cache.NewMemoryListingCache(cfg.ListingCacheTTL, log)
		memory.Start()
		return memory, memory.Stop
	}
	return cache.NewRedisListingCache(redisStore.Client(), cfg.ListingCacheTTL, log), func() {}
}

func provideReadinessChecks(redisStore *kvstore.RedisStore, backend *objectBackend) []httpserver.ReadinessCheck {
	return []httpserver.ReadinessCheck{
		{Name: "redis", Check: redisStore.HealthCheck},
		{Name: "storage", Check: backend.store.Health},
	}
}

func provideObjectStore(backend *objectBackend) *storage.RetryingStore {
	return backend.store
}

func provideObjectReceiver(backend *objectBackend) handlers.ObjectReceiver {
	return backend.receiver
}

// provideAccessService builds the access service and stores the configured admin credentials
// when the index has none.
func provideAccessService(ctx context.Context, cfg *config.Config, store access.CredentialStore, issuer access.TokenIssuer, log zerolog.Logger) (*access.Service, error) {
	service := access.NewService(store, issuer, log)
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return service, nil
	}
	seedCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	seeded, err := service.EnsureAdmin(seedCtx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed admin credentials: %w", err)
	}
	if seeded {
		log.Info().Str("username", cfg.AdminUsername).Msg("seeded admin credentials")
	}
	return service, nil
}
