package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the gallery service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"gallery-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"GALLERY_API_PORT" envDefault:"8285"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPIILevel     string        `env:"LOG_PII_LEVEL" envDefault:"hashed"` // Options: "none", "hashed" or "full"
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Metadata index (required, no default)
	RedisURL string `env:"REDIS_URL,notEmpty"`

	// Listing cache
	CacheBackend    string        `env:"CACHE_BACKEND" envDefault:"redis"` // Options: "redis" or "memory"
	ListingCacheTTL time.Duration `env:"LISTING_CACHE_TTL" envDefault:"1h"`

	// Storage Backend Selection
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"s3"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath    string `env:"LOCAL_STORAGE_PATH"`     // e.g. "./gallery-data"
	LocalStorageBaseURL string `env:"LOCAL_STORAGE_BASE_URL"` // e.g. "http://localhost:8285/v1/objects"
	LocalSigningKey     string `env:"LOCAL_SIGNING_KEY"`

	// S3 Storage Configuration
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3PublicEndpoint string `env:"S3_PUBLIC_ENDPOINT"`
	S3PublicBaseURL  string `env:"S3_PUBLIC_BASE_URL"`
	S3Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket         string `env:"S3_BUCKET"`
	S3AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
	S3PublicReadACL  bool   `env:"S3_PUBLIC_READ_ACL" envDefault:"true"`

	// Upload Configuration
	PresignTTL      time.Duration `env:"PRESIGN_TTL" envDefault:"1h"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
	StoreRetryMax   int           `env:"STORE_RETRY_MAX" envDefault:"3"`
	StoreRetryDelay time.Duration `env:"STORE_RETRY_DELAY" envDefault:"200ms"`

	// Authentication
	AuthSigningKey string        `env:"AUTH_SIGNING_KEY,notEmpty"`
	AuthTokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"12h"`
	AdminUsername  string        `env:"ADMIN_USERNAME"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicEndpoint = strings.TrimSpace(cfg.S3PublicEndpoint)
	cfg.S3PublicBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.S3PublicBaseURL), "/")
	cfg.LocalStorageBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.LocalStorageBaseURL), "/")
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 * 1024 * 1024
	}
	if cfg.ListingCacheTTL <= 0 {
		cfg.ListingCacheTTL = time.Hour
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = time.Hour
	}
	if cfg.StoreRetryMax < 0 {
		cfg.StoreRetryMax = 0
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.IsLocalStorage():
		if strings.TrimSpace(c.LocalStoragePath) == "" {
			return fmt.Errorf("LOCAL_STORAGE_PATH is required when STORAGE_BACKEND is local")
		}
		if strings.TrimSpace(c.LocalSigningKey) == "" {
			return fmt.Errorf("LOCAL_SIGNING_KEY is required when STORAGE_BACKEND is local")
		}
	case c.IsS3Storage():
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND is s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch strings.ToLower(strings.TrimSpace(c.CacheBackend)) {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}

// IsS3Storage returns true if S3 storage backend is configured.
func (c *Config) IsS3Storage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "s3"
}

// IsMemoryCache reports whether listings are memoized in-process instead of in Redis.
func (c *Config) IsMemoryCache() bool {
	return strings.ToLower(strings.TrimSpace(c.CacheBackend)) == "memory"
}
