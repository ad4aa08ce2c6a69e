package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the single immutable configuration object for the library. It is
// built once (Load + host adjustments) and threaded through constructors;
// components never reach for ambient global state.
type Config struct {
	// DefaultDisk is used when an upload does not name a disk.
	DefaultDisk string `validate:"required"`

	// Disks maps logical disk names to backends.
	Disks map[string]DiskConfig `validate:"required,dive"`

	// FileTypes is the ordered list of type definitions the classifier
	// iterates. Order is part of the contract: first match wins.
	FileTypes []FileTypeConfig `validate:"required,dive"`

	// PathGenerator / URLGenerator select strategy implementations by
	// registry identifier, resolved once at startup.
	PathGenerator string `validate:"required"`
	URLGenerator  string `validate:"required"`

	// TrustClientMime makes classification try the client-declared MIME
	// before the server-sniffed one; ClientMimeFallback allows falling back
	// to the client MIME when the sniffed one matches no type.
	TrustClientMime    bool
	ClientMimeFallback bool

	TempDir string

	Retry      RetryConfig
	Presign    PresignConfig
	Queue      QueueConfig
	Conversion ConversionConfig
	Database   DatabaseConfig
	Log        LogConfig
}

type DiskConfig struct {
	Driver string `validate:"required,oneof=local s3 azure"`

	// Local driver.
	Root string

	// BaseURL serves public URLs for this disk (local driver, or a CDN in
	// front of an object store).
	BaseURL string

	S3    S3DiskConfig
	Azure AzureDiskConfig
}

type S3DiskConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type AzureDiskConfig struct {
	Account   string
	Container string
}

// TransformerConfig is the opaque key/value configuration handed to a
// transformer. Values may come from JSON, so numeric accessors accept
// float64 as well as int.
type TransformerConfig map[string]any

func (c TransformerConfig) Bool(key string, def bool) bool {
	if v, ok := c[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (c TransformerConfig) String(key, def string) string {
	if v, ok := c[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func (c TransformerConfig) Int(key string, def int) int {
	switch v := c[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Sub returns a nested map (e.g. the "size" block of a resize spec).
func (c TransformerConfig) Sub(key string) TransformerConfig {
	if v, ok := c[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			return TransformerConfig(m)
		case TransformerConfig:
			return m
		}
	}
	return nil
}

// TransformerSpec describes one named transformation for a file type.
//
// Queued semantics mirror the tri-state setting this replaces: Queued=false
// (and no Queue name) runs the job immediately in the caller's context; any
// other combination queues it, routed to the named lane when Queue is set.
// The "default" flag lives inside Config: a transformer flagged default
// overwrites the file's own bytes and metrics instead of creating a
// Transformation record.
type TransformerSpec struct {
	Transformer string `validate:"required"` // registry identifier
	Queued      bool
	Queue       string // optional named lane; implies queued
	Config      TransformerConfig
}

// IsQueued reports whether the job should go through the queue runtime.
func (s TransformerSpec) IsQueued() bool {
	return s.Queued || s.Queue != ""
}

// IsDefault reports whether the result replaces the file's own metadata.
func (s TransformerSpec) IsDefault() bool {
	return s.Config.Bool("default", false)
}

// FileTypeConfig defines one logical file type.
type FileTypeConfig struct {
	// Type is the logical name ("image", "document", ...).
	Type string `validate:"required"`

	// Mimes maps an extension to the MIME strings accepted for it.
	Mimes map[string][]string `validate:"required"`

	// Thumb is the type's default thumbnail transformer, always included in
	// group resolution when configured.
	Thumb *TransformerSpec

	// Transformations is the named transformer table.
	Transformations map[string]TransformerSpec

	// TransformationGroups maps a group tag to the list of transformation
	// names generated for files in that group. Lookups fall back to
	// "default" when the requested group has no entry.
	TransformationGroups map[string][]string

	// Defaults maps a transformation name to a static fallback URL served
	// while that transformation does not exist (yet).
	Defaults map[string]string
}

type RetryConfig struct {
	// Tries caps the attempts for a queued transform job.
	Tries int `validate:"min=1"`
}

type PresignConfig struct {
	// Expiry bounds the validity window for presigned URLs.
	Expiry time.Duration
}

type QueueConfig struct {
	URL      string // nats://localhost:4222
	Stream   string
	Consumer string
}

type ConversionConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration // upper bound on waiting for the external service
	PollInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

const (
	DefaultTries         = 5
	DefaultPresignExpiry = 20 * time.Minute
)

// Load builds a Config from the environment with library defaults. The host
// application typically adjusts FileTypes and Disks afterwards and then
// calls Validate.
func Load() (*Config, error) {
	// Missing .env is fine, plain environment variables are used instead.
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("MEDIALIB_LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("MEDIALIB_LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("MEDIALIB_LOG_MAX_AGE", "30"))
	tries, _ := strconv.Atoi(getEnv("MEDIALIB_RETRY_TRIES", strconv.Itoa(DefaultTries)))

	presignExpiry, err := time.ParseDuration(getEnv("MEDIALIB_PRESIGN_EXPIRY", "20m"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIALIB_PRESIGN_EXPIRY: %w", err)
	}

	conversionTimeout, err := time.ParseDuration(getEnv("MEDIALIB_CONVERSION_TIMEOUT", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIALIB_CONVERSION_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DefaultDisk: getEnv("MEDIALIB_DEFAULT_DISK", "local"),
		Disks: map[string]DiskConfig{
			"local": {
				Driver:  "local",
				Root:    getEnv("MEDIALIB_LOCAL_ROOT", "./media"),
				BaseURL: getEnv("MEDIALIB_LOCAL_BASE_URL", "http://localhost:8080/media"),
			},
		},
		FileTypes:          DefaultFileTypes(),
		PathGenerator:      getEnv("MEDIALIB_PATH_GENERATOR", "flat"),
		URLGenerator:       getEnv("MEDIALIB_URL_GENERATOR", "public"),
		TrustClientMime:    getEnvBool("MEDIALIB_TRUST_CLIENT_MIME", false),
		ClientMimeFallback: getEnvBool("MEDIALIB_CLIENT_MIME_FALLBACK", true),
		TempDir:            getEnv("MEDIALIB_TEMP_DIR", os.TempDir()),
		Retry:              RetryConfig{Tries: tries},
		Presign:            PresignConfig{Expiry: presignExpiry},
		Queue: QueueConfig{
			URL:      getEnv("NATS_URL", "nats://localhost:4222"),
			Stream:   getEnv("MEDIALIB_QUEUE_STREAM", "MEDIALIB_JOBS"),
			Consumer: getEnv("MEDIALIB_QUEUE_CONSUMER", "medialib-worker"),
		},
		Conversion: ConversionConfig{
			BaseURL:      getEnv("MEDIALIB_CONVERSION_URL", ""),
			APIKey:       getEnv("MEDIALIB_CONVERSION_API_KEY", ""),
			Timeout:      conversionTimeout,
			PollInterval: 2 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "medialib"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Log: LogConfig{
			Level:      getEnv("MEDIALIB_LOG_LEVEL", "info"),
			Format:     getEnv("MEDIALIB_LOG_FORMAT", "json"),
			Output:     getEnv("MEDIALIB_LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("MEDIALIB_LOG_FILE", "logs/medialib.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   getEnvBool("MEDIALIB_LOG_COMPRESS", true),
		},
	}

	s3Endpoint := getEnv("S3_ENDPOINT", "")
	if s3Endpoint != "" {
		cfg.Disks["s3"] = DiskConfig{
			Driver:  "s3",
			BaseURL: getEnv("S3_PUBLIC_URL", ""),
			S3: S3DiskConfig{
				Endpoint:  s3Endpoint,
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Bucket:    getEnv("S3_BUCKET", "medialib"),
				Region:    getEnv("S3_REGION", "auto"),
				UseSSL:    getEnvBool("S3_USE_SSL", true),
			},
		}
	}

	return cfg, nil
}

// FileType looks up a type definition by logical name.
func (c *Config) FileType(name string) *FileTypeConfig {
	for i := range c.FileTypes {
		if c.FileTypes[i].Type == name {
			return &c.FileTypes[i]
		}
	}
	return nil
}

// Disk looks up a disk definition by logical name.
func (c *Config) Disk(name string) (DiskConfig, bool) {
	d, ok := c.Disks[name]
	return d, ok
}

// Validate checks structural validity plus the invariants the pipeline
// relies on.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, ok := c.Disks[c.DefaultDisk]; !ok {
		return fmt.Errorf("config: default disk %q is not defined", c.DefaultDisk)
	}

	seen := make(map[string]bool, len(c.FileTypes))
	for _, ft := range c.FileTypes {
		if seen[ft.Type] {
			return fmt.Errorf("config: duplicate file type %q", ft.Type)
		}
		seen[ft.Type] = true

		// Concurrent default-transformation jobs would race on the file
		// record, so at most one transformer per type may be default.
		defaults := 0
		if ft.Thumb != nil && ft.Thumb.IsDefault() {
			defaults++
		}
		for name, spec := range ft.Transformations {
			if spec.Transformer == "" {
				return fmt.Errorf("config: file type %q transformation %q has no transformer", ft.Type, name)
			}
			if spec.IsDefault() {
				defaults++
			}
		}
		if defaults > 1 {
			return fmt.Errorf("config: file type %q defines %d default transformers, at most one is allowed", ft.Type, defaults)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
