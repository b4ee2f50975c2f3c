package config

import (
	"context"
	"time"

	"github.com/mobai/mobai-http/pkg/version"
)

const (
	// DefaultRequestTimeout bounds a single http_request call (10 minutes, for
	// long-running agent endpoints).
	DefaultRequestTimeout = 10 * time.Minute
	// DefaultScreenshotsDir is where externalized screenshots are written.
	DefaultScreenshotsDir = "/tmp/mobai/screenshots"
	DefaultContentType    = "application/json"
	DefaultServerName     = "mobai-http"
	DefaultMetricsPath    = "/metrics"
)

// Config represents the complete configuration of the mobai-http server.
type Config struct {
	Server      ServerConfig      `koanf:"server"      validate:"required"`
	HTTP        HTTPConfig        `koanf:"http"        validate:"required"`
	Screenshots ScreenshotsConfig `koanf:"screenshots" validate:"required"`
	Runtime     RuntimeConfig     `koanf:"runtime"     validate:"required"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

// ServerConfig contains the MCP server identity.
type ServerConfig struct {
	Name string `koanf:"name" validate:"required" env:"MOBAI_SERVER_NAME"`
}

// HTTPConfig contains defaults for outgoing requests.
type HTTPConfig struct {
	DefaultTimeout time.Duration `koanf:"default_timeout" validate:"gt=0"    env:"MOBAI_HTTP_DEFAULT_TIMEOUT"`
	ContentType    string        `koanf:"content_type"    validate:"required" env:"MOBAI_HTTP_CONTENT_TYPE"`
	UserAgent      string        `koanf:"user_agent"                          env:"MOBAI_HTTP_USER_AGENT"`
}

// ScreenshotsConfig contains blob storage settings.
type ScreenshotsConfig struct {
	Dir string `koanf:"dir" validate:"required" env:"MOBAI_SCREENSHOTS_DIR"`
}

// RuntimeConfig contains logging behavior.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled" env:"MOBAI_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"                                                  env:"MOBAI_LOG_JSON"`
	LogSource bool   `koanf:"log_source"                                                env:"MOBAI_LOG_SOURCE"`
}

// MetricsConfig controls the optional Prometheus listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" env:"MOBAI_METRICS_ADDR"`
	Path string `koanf:"path" validate:"required,startswith=/" env:"MOBAI_METRICS_PATH"`
}

// Service defines the interface for configuration loading.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
	// Close releases any resources held by the source.
	Close() error
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name: DefaultServerName,
		},
		HTTP: HTTPConfig{
			DefaultTimeout: DefaultRequestTimeout,
			ContentType:    DefaultContentType,
			UserAgent:      version.UserAgent(),
		},
		Screenshots: ScreenshotsConfig{
			Dir: DefaultScreenshotsDir,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
		Metrics: MetricsConfig{
			Path: DefaultMetricsPath,
		},
	}
}
