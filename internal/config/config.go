// Package config loads the application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	// MaxUploadBytes bounds multipart uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"20971520"`
}

// SecurityConfig contains rate limiting configuration.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// AnalysisConfig carries the defaults threaded into analyzer runs.
type AnalysisConfig struct {
	DefaultMode string `yaml:"default_mode" envconfig:"DEFAULT_MODE" default:"auto" validate:"oneof=auto finance sales data strict"`
	DateFormat  string `yaml:"date_format" envconfig:"DATE_FORMAT" default:"DD-MMM-YYYY"`
}

// CacheConfig controls the transient dataset cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" envconfig:"TTL" default:"30m"`
}

// Load reads the configuration: defaults, then the YAML file if present,
// then environment overrides with the RAPIH prefix, then validation.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("RAPIH", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment wins over the file.
	if err := envconfig.Process("RAPIH", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
