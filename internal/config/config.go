// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInputDirMissing is returned when the input directory does not exist.
	ErrInputDirMissing = errors.New("config: input directory does not exist")
	// ErrInvalidSegmentLength is returned when the segment length is negative.
	ErrInvalidSegmentLength = errors.New("config: segment length must be zero or greater")
)

// Config holds all configuration for the segmenter.
type Config struct {
	// Directory settings
	InputDir     string `env:"INPUT_DIR, default=." json:"input_dir" validate:"required"`
	SplitDir     string `env:"SPLIT_DIR, default=split" json:"split_dir" validate:"required"`
	CompletedDir string `env:"COMPLETED_DIR, default=completed" json:"completed_dir" validate:"required"`

	// Manifest settings
	ManifestFile string `env:"MANIFEST_FILE, default=video_titles.json" json:"manifest_file" validate:"required"`

	// Processing settings
	SegmentMinutes int  `env:"SEGMENT_MINUTES, default=15" json:"segment_minutes" validate:"gte=0"`
	FolderPerSplit bool `env:"FOLDER_PER_SPLIT, default=false" json:"folder_per_split"`

	// External tool settings
	FFmpegPath string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path" validate:"required"`

	// Optional S3 archive settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"

	// WorkDir is the directory the manifest file is resolved against.
	// Captured once at load time so nothing downstream reads the working
	// directory ambiently.
	WorkDir string `json:"work_dir"`
}

// S3Enabled returns true if S3 archive configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// ManifestPath returns the absolute path of the manifest file.
func (c *Config) ManifestPath() string {
	if filepath.IsAbs(c.ManifestFile) {
		return c.ManifestFile
	}
	return filepath.Join(c.WorkDir, c.ManifestFile)
}

// Load reads configuration from environment variables using go-envconfig
// and captures the current working directory as WorkDir.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: resolve working directory: %w", err)
	}
	cfg.WorkDir = wd

	return cfg, nil
}

// Validate checks the configuration. Struct tags are checked first, then
// the input directory is verified to exist on disk.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.StructField() == "SegmentMinutes" {
					return fmt.Errorf("%w: got %d", ErrInvalidSegmentLength, c.SegmentMinutes)
				}
			}
		}
		return fmt.Errorf("config: %w", err)
	}

	info, err := os.Stat(c.InputDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputDirMissing, c.InputDir)
	}

	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for automation.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{InputDir: %s, SplitDir: %s, CompletedDir: %s, ManifestFile: %s, SegmentMinutes: %d, FolderPerSplit: %t, FFmpegPath: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.InputDir,
		c.SplitDir,
		c.CompletedDir,
		c.ManifestFile,
		c.SegmentMinutes,
		c.FolderPerSplit,
		c.FFmpegPath,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
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
