package media

import (
	"context"
	"errors"

	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

var (
	ErrInvalidMediaType   = errors.New("invalid media type")
	ErrInvalidUploadClass = errors.New("invalid upload class")
	ErrInvalidKey         = errors.New("invalid object key")
	ErrUploadNotVerified  = errors.New("upload did not complete")
	ErrStoreUnavailable   = errors.New("object store unavailable")
	ErrImageNotFound      = errors.New("image not found")
	ErrIndexUnavailable   = errors.New("metadata index unavailable")
)

func invalidMediaType(ctx context.Context, contentType string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		"unsupported media type "+contentType, ErrInvalidMediaType,
		"3f0c2a61-8d7e-4b52-9a1f-6c0e2d4b7a10", map[string]any{"content_type": contentType})
}

func invalidUploadClass(ctx context.Context, class UploadClass) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		"unknown upload class", ErrInvalidUploadClass,
		"b2d4e6f8-1a3c-4e5f-8b7d-9c0a1e2f3d4b", map[string]any{"class": string(class)})
}

func invalidKey(ctx context.Context, key string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		"object key does not belong to the upload class", ErrInvalidKey,
		"5e7a9c1b-3d5f-4a7b-9c1e-3f5a7b9c1d3e", map[string]any{"key": key})
}

func uploadNotVerified(ctx context.Context, key string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
		"upload did not complete", ErrUploadNotVerified,
		"9a1c3e5f-7b9d-4f1a-8c3e-5a7c9e1f3b5d", map[string]any{"key": key})
}

func imageNotFound(ctx context.Context, key string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"image not found", ErrImageNotFound,
		"c4e6a8b0-2d4f-4c6e-8a0b-2d4f6a8c0e2f", map[string]any{"key": key})
}

func storeUnavailable(ctx context.Context, op string, err error) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
		"object store "+op+" failed", errors.Join(ErrStoreUnavailable, err),
		"7d9f1b3d-5f7a-4b9d-8f1b-3d5f7a9b1d3f", map[string]any{"operation": op})
}

func indexUnavailable(ctx context.Context, op string, err error) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
		"metadata index "+op+" failed", errors.Join(ErrIndexUnavailable, err),
		"1b3d5f7a-9c1e-4d3f-a5b7-c9d1e3f5a7b9", map[string]any{"operation": op})
}
