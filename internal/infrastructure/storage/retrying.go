package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/domain/retry"
)

// HealthChecker is implemented by backends that can check their own reachability.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RetryingStore retries listing and presigning. Existence checks and deletes pass straight
// through so a finalize or delete reflects a single observation of the bucket.
type RetryingStore struct {
	inner  media.ObjectStore
	policy retry.Policy
	log    zerolog.Logger
}

func NewRetryingStore(inner media.ObjectStore, policy retry.Policy, log zerolog.Logger) *RetryingStore {
	if policy.Retryable == nil {
		policy.Retryable = func(err error) bool {
			return !errors.Is(err, ErrInvalidObjectKey)
		}
	}
	return &RetryingStore{
		inner:  inner,
		policy: policy,
		log:    log.With().Str("component", "retrying-store").Logger(),
	}
}

func (r *RetryingStore) List(ctx context.Context, prefix string) ([]media.ObjectInfo, error) {
	return retry.ExecuteWithResult(ctx, r.policy, func(ctx context.Context, attempt int) ([]media.ObjectInfo, error) {
		if attempt > 0 {
			r.log.Warn().Int("attempt", attempt).Str("prefix", prefix).Msg("retrying list")
		}
		return r.inner.List(ctx, prefix)
	})
}

func (r *RetryingStore) PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (*media.PresignedPut, error) {
	return retry.ExecuteWithResult(ctx, r.policy, func(ctx context.Context, attempt int) (*media.PresignedPut, error) {
		if attempt > 0 {
			r.log.Warn().Int("attempt", attempt).Str("key", key).Msg("retrying presign")
		}
		return r.inner.PresignPut(ctx, key, contentType, ttl)
	})
}

func (r *RetryingStore) Delete(ctx context.Context, key string) error {
	return r.inner.Delete(ctx, key)
}

func (r *RetryingStore) HeadExists(ctx context.Context, key string) (bool, error) {
	return r.inner.HeadExists(ctx, key)
}

func (r *RetryingStore) PublicURL(key string) string {
	return r.inner.PublicURL(key)
}

func (r *RetryingStore) Health(ctx context.Context) error {
	if hc, ok := r.inner.(HealthChecker); ok {
		return hc.Health(ctx)
	}
	return nil
}
