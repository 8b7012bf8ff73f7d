package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SPLITMP3_FFMPEG",
		"SPLITMP3_FFPROBE",
		"SPLITMP3_SEGMENT_LENGTH",
		"SPLITMP3_MIN_SILENCE_DURATION",
		"SPLITMP3_SILENCE_THRESHOLD",
		"SPLITMP3_S3_BUCKET",
		"SPLITMP3_S3_REGION",
		"SPLITMP3_LOG_FORMAT",
		"SPLITMP3_LOG_LEVEL",
	} {
		// t.Setenv registers cleanup and marks the test as non-parallel.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, 300, cfg.SegmentLength)
	assert.Equal(t, 0.5, cfg.MinSilenceDuration)
	assert.Equal(t, -30, cfg.SilenceThreshold)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPLITMP3_SEGMENT_LENGTH", "600")
	t.Setenv("SPLITMP3_MIN_SILENCE_DURATION", "0.3")
	t.Setenv("SPLITMP3_SILENCE_THRESHOLD", "-25")
	t.Setenv("SPLITMP3_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.SegmentLength)
	assert.Equal(t, 0.3, cfg.MinSilenceDuration)
	assert.Equal(t, -25, cfg.SilenceThreshold)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "splitmp3.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"segment_length = 450\nsilence_threshold = -40\nffmpeg = \"/opt/ffmpeg/bin/ffmpeg\"\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 450, cfg.SegmentLength)
	assert.Equal(t, -40, cfg.SilenceThreshold)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.5, cfg.MinSilenceDuration)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPLITMP3_SEGMENT_LENGTH", "120")

	path := filepath.Join(t.TempDir(), "splitmp3.toml")
	require.NoError(t, os.WriteFile(path, []byte("segment_length = 450\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.SegmentLength)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"zero segment length", func(c *Config) { c.SegmentLength = 0 }, true},
		{"negative segment length", func(c *Config) { c.SegmentLength = -10 }, true},
		{"zero silence duration", func(c *Config) { c.MinSilenceDuration = 0 }, true},
		{"non-negative threshold", func(c *Config) { c.SilenceThreshold = 0 }, true},
		{"positive threshold", func(c *Config) { c.SilenceThreshold = 5 }, true},
		{"bogus log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"bogus log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestS3Enabled(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.S3Enabled())

	cfg.S3Bucket = "bucket"
	assert.False(t, cfg.S3Enabled())

	cfg.S3Region = "eu-west-1"
	assert.True(t, cfg.S3Enabled())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("unknown"))
}
