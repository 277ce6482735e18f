package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `json:"server"`
	Certificates CertificatesConfig `json:"certificates"`
	Storage      StorageConfig      `json:"storage"`
	Retention    RetentionConfig    `json:"retention"`
	RateLimit    RateLimitConfig    `json:"rate_limit"`
	CORS         CORSConfig         `json:"cors"`
	Logging      LoggingConfig      `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	Mode            string   `json:"mode"` // gin mode: debug, release, test
	ReadTimeout     Duration `json:"read_timeout"`
	WriteTimeout    Duration `json:"write_timeout"`
	IdleTimeout     Duration `json:"idle_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
}

// CertificatesConfig controls rendering defaults
type CertificatesConfig struct {
	DefaultStyle        string `json:"default_style"`
	DefaultTemplate     string `json:"default_template"`
	DefaultOrganization string `json:"default_organization"`
	PageSize            string `json:"page_size"`
	Compress            bool   `json:"compress"`
	Author              string `json:"author"`
}

// StorageConfig selects where generated files live
type StorageConfig struct {
	Backend string   `json:"backend"` // local, s3
	Dir     string   `json:"dir"`
	S3      S3Config `json:"s3"`
}

// S3Config holds S3 backend settings
type S3Config struct {
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Prefix          string `json:"prefix"`
	UsePathStyle    bool   `json:"use_path_style"`
}

// RetentionConfig controls eviction of generated files; a zero TTL keeps
// files forever
type RetentionConfig struct {
	TTL      Duration `json:"ttl"`
	Schedule string   `json:"schedule"`
}

// RateLimitConfig limits certificate generation per client IP; zero disables
type RateLimitConfig struct {
	RequestsPerSecond float64  `json:"requests_per_second"`
	Burst             int      `json:"burst"`
	IdleTimeout       Duration `json:"idle_timeout"`
}

// CORSConfig
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins"`
}

// LoggingConfig
type LoggingConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"` // json, console
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Duration is a time.Duration that reads "15s" style strings or nanoseconds from JSON
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON encodes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the standard library duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Mode:            "release",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Certificates: CertificatesConfig{
			DefaultStyle:    "advanced",
			DefaultTemplate: "volunteer",
			PageSize:        "A4",
			Compress:        true,
			Author:          "Certificate Generator",
		},
		Storage: StorageConfig{
			Backend: "local",
			Dir:     "certificates",
			S3: S3Config{
				Region: "us-east-1",
				Prefix: "certificates/",
			},
		},
		Retention: RetentionConfig{
			TTL:      Duration(72 * time.Hour),
			Schedule: "@every 1h",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
			IdleTimeout:       Duration(10 * time.Minute),
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig loads configuration from file and environment variables.
// A missing file is not an error; defaults and environment still apply.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) error {
	var errs []error

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	setDuration := func(key string, dst *Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = Duration(d)
		}
	}

	setString("SERVER_HOST", &config.Server.Host)
	setInt("SERVER_PORT", &config.Server.Port)
	setString("GIN_MODE", &config.Server.Mode)

	setString("CERTIFICATES_DEFAULT_STYLE", &config.Certificates.DefaultStyle)
	setString("CERTIFICATES_DEFAULT_TEMPLATE", &config.Certificates.DefaultTemplate)
	setString("CERTIFICATES_DEFAULT_ORGANIZATION", &config.Certificates.DefaultOrganization)
	setBool("CERTIFICATES_COMPRESS", &config.Certificates.Compress)

	setString("STORAGE_BACKEND", &config.Storage.Backend)
	setString("STORAGE_DIR", &config.Storage.Dir)
	setString("S3_BUCKET", &config.Storage.S3.Bucket)
	setString("S3_REGION", &config.Storage.S3.Region)
	setString("S3_ENDPOINT", &config.Storage.S3.Endpoint)
	setString("S3_ACCESS_KEY_ID", &config.Storage.S3.AccessKeyID)
	setString("S3_SECRET_ACCESS_KEY", &config.Storage.S3.SecretAccessKey)
	setString("S3_PREFIX", &config.Storage.S3.Prefix)
	setBool("S3_USE_PATH_STYLE", &config.Storage.S3.UsePathStyle)

	setDuration("RETENTION_TTL", &config.Retention.TTL)
	setString("RETENTION_SCHEDULE", &config.Retention.Schedule)

	setFloat("RATE_LIMIT_RPS", &config.RateLimit.RequestsPerSecond)
	setInt("RATE_LIMIT_BURST", &config.RateLimit.Burst)

	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		config.CORS.AllowOrigins = splitList(origins)
	}

	setString("LOG_LEVEL", &config.Logging.Level)
	setString("LOG_FORMAT", &config.Logging.Format)
	setString("LOG_FILE", &config.Logging.File)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks enumerated values and ranges
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q is not one of debug, release, test", c.Server.Mode))
	}
	switch c.Certificates.DefaultStyle {
	case "advanced", "minimal", "simple":
	default:
		errs = append(errs, fmt.Errorf("certificates.default_style %q is not one of advanced, minimal, simple", c.Certificates.DefaultStyle))
	}
	switch c.Certificates.DefaultTemplate {
	case "volunteer", "achievement", "participation":
	default:
		errs = append(errs, fmt.Errorf("certificates.default_template %q is not one of volunteer, achievement, participation", c.Certificates.DefaultTemplate))
	}
	switch c.Storage.Backend {
	case "local":
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the local backend"))
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("storage.s3.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not one of local, s3", c.Storage.Backend))
	}
	if c.Retention.TTL < 0 {
		errs = append(errs, errors.New("retention.ttl must not be negative"))
	}
	if c.Retention.TTL > 0 {
		if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("retention.schedule %q: %w", c.Retention.Schedule, err))
		}
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst == 0 {
		errs = append(errs, errors.New("rate_limit.burst must be positive when rate limiting is enabled"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
