package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/metrics"
)

// S3Storage is the gallery bucket on S3-compatible storage.
type S3Storage struct {
	bucket     string
	client     *s3.Client
	presigner  *s3.PresignClient
	publicBase string
	publicACL  bool
	log        zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		))
	} else {
		logger.Warn().Msg("S3_ACCESS_KEY_ID or S3_SECRET_ACCESS_KEY not set; using the default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	// Presigned URLs are handed to browsers, so they must be signed for the host the browser sees.
	presignEndpoint := cfg.S3PublicEndpoint
	if presignEndpoint == "" {
		presignEndpoint = cfg.S3Endpoint
	}
	presignClient := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if presignEndpoint != "" {
			o.BaseEndpoint = aws.String(presignEndpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	storage := &S3Storage{
		bucket:     cfg.S3Bucket,
		client:     client,
		presigner:  s3.NewPresignClient(presignClient),
		publicBase: publicBaseURL(cfg),
		publicACL:  cfg.S3PublicReadACL,
		log:        logger,
	}

	logger.Info().
		Str("bucket", storage.bucket).
		Str("public_base", storage.publicBase).
		Msg("s3 storage initialized")

	return storage, nil
}

func publicBaseURL(cfg *config.Config) string {
	if cfg.S3PublicBaseURL != "" {
		return cfg.S3PublicBaseURL
	}
	endpoint := cfg.S3PublicEndpoint
	if endpoint == "" {
		endpoint = cfg.S3Endpoint
	}
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	endpoint = strings.TrimSuffix(endpoint, "/")
	if cfg.S3UsePathStyle {
		return endpoint + "/" + cfg.S3Bucket
	}
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		u.Host = cfg.S3Bucket + "." + u.Host
		return u.String()
	}
	return endpoint + "/" + cfg.S3Bucket
}

// List returns every object under prefix, following continuation tokens.
func (s *S3Storage) List(ctx context.Context, prefix string) ([]media.ObjectInfo, error) {
	start := time.Now()
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var objects []media.ObjectInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.record("list", err, start)
			return nil, fmt.Errorf("list objects under %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			info := media.ObjectInfo{Key: aws.ToString(obj.Key)}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			objects = append(objects, info)
		}
	}
	s.record("list", nil, start)
	return objects, nil
}

// Delete removes one object. S3 reports success for missing keys.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	s.record("delete", err, start)
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PresignPut signs a single PUT of key with the given content type.
func (s *S3Storage) PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (*media.PresignedPut, error) {
	start := time.Now()
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	if s.publicACL {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(ttl))
	s.record("presign", err, start)
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}

	return &media.PresignedPut{
		URL:     req.URL,
		Headers: clientHeaders(req.SignedHeader),
	}, nil
}

// clientHeaders keeps the signed headers a browser can and must send itself.
func clientHeaders(signed http.Header) map[string]string {
	headers := make(map[string]string, len(signed))
	for name, values := range signed {
		switch strings.ToLower(name) {
		case "host", "content-length":
			continue
		}
		if len(values) > 0 {
			headers[http.CanonicalHeaderKey(name)] = values[0]
		}
	}
	return headers
}

// HeadExists checks a key once. A missing key is not an error.
func (s *S3Storage) HeadExists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		s.record("head", nil, start)
		return true, nil
	}
	if isNotFound(err) {
		s.record("head", nil, start)
		return false, nil
	}
	s.record("head", err, start)
	return false, fmt.Errorf("head object %s: %w", key, err)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// PublicURL returns the anonymous read URL of key.
func (s *S3Storage) PublicURL(key string) string {
	return s.publicBase + "/" + escapeKey(key)
}

// Health performs a HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *S3Storage) record(operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
		s.log.Error().Err(err).Str("operation", operation).Msg("s3 operation failed")
	}
	metrics.RecordStoreOperation(operation, status, time.Since(start).Seconds())
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
