// Package config provides configuration for splitmp3. Values are
// layered: built-in defaults, then an optional TOML file, then
// SPLITMP3_* environment variables; CLI flags override on top of the
// loaded result in the command layer.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all tunables for a run.
type Config struct {
	// Engine binaries, resolved via PATH when left as plain names.
	FFmpegPath  string `toml:"ffmpeg" env:"SPLITMP3_FFMPEG, overwrite" validate:"required"`
	FFprobePath string `toml:"ffprobe" env:"SPLITMP3_FFPROBE, overwrite" validate:"required"`

	// Segmentation settings.
	SegmentLength      int     `toml:"segment_length" env:"SPLITMP3_SEGMENT_LENGTH, overwrite" validate:"gt=0"`
	MinSilenceDuration float64 `toml:"min_silence_duration" env:"SPLITMP3_MIN_SILENCE_DURATION, overwrite" validate:"gt=0"`
	SilenceThreshold   int     `toml:"silence_threshold" env:"SPLITMP3_SILENCE_THRESHOLD, overwrite" validate:"lt=0"`

	// Optional S3 publishing of finished segments.
	S3Bucket           string `toml:"s3_bucket" env:"SPLITMP3_S3_BUCKET, overwrite"`
	S3Region           string `toml:"s3_region" env:"SPLITMP3_S3_REGION, overwrite"`
	AWSAccessKeyID     string `toml:"-" env:"AWS_ACCESS_KEY_ID, overwrite"`
	AWSSecretAccessKey string `toml:"-" env:"AWS_SECRET_ACCESS_KEY, overwrite"`

	// Logging settings.
	LogFormat string `toml:"log_format" env:"SPLITMP3_LOG_FORMAT, overwrite" validate:"oneof=text json"` // "json" or "text"
	LogLevel  string `toml:"log_level" env:"SPLITMP3_LOG_LEVEL, overwrite" validate:"oneof=debug info warn warning error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FFmpegPath:         "ffmpeg",
		FFprobePath:        "ffprobe",
		SegmentLength:      300,
		MinSilenceDuration: 0.5,
		SilenceThreshold:   -30,
		LogFormat:          "text",
		LogLevel:           "info",
	}
}

// Load builds the configuration from defaults, the optional TOML file
// at path (empty means no file), and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - path is given by the operator
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config from environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// S3Enabled reports whether segment publishing to S3 is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// NewLogger creates a structured logger based on the configuration.
// Logs go to stderr so stdout stays free for the run summary.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
