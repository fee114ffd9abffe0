// Package config loads runtime configuration for cropslice.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/frudas24/cropslice/internal/engine"
)

const (
	defaultListenAddr        = "0.0.0.0:8787"
	defaultDataDir           = "./data"
	defaultViewWidth         = 1000
	defaultViewHeight        = 800
	defaultPreviewEnabled    = true
	defaultPreviewIntervalMs = 120
	defaultPreviewQuality    = 60
	defaultLogLevel          = "info"
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr        string  `mapstructure:"listen_addr"`
	UIPassword        string  `mapstructure:"ui_password"`
	DataDir           string  `mapstructure:"data_dir"`
	ImagePath         string  `mapstructure:"image_path"`
	ViewWidth         int     `mapstructure:"view_width"`
	ViewHeight        int     `mapstructure:"view_height"`
	HandleRadius      float64 `mapstructure:"handle_radius"`
	SnapRadius        float64 `mapstructure:"snap_radius"`
	AspectRatio       float64 `mapstructure:"aspect_ratio"`
	AssumeCenter      bool    `mapstructure:"assume_center"`
	PreviewEnabled    bool    `mapstructure:"preview_enabled"`
	PreviewIntervalMs int     `mapstructure:"preview_interval_ms"`
	PreviewQuality    int     `mapstructure:"preview_quality"`
	LogLevel          string  `mapstructure:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	opts := engine.DefaultOptions()
	return Config{
		ListenAddr:        defaultListenAddr,
		DataDir:           defaultDataDir,
		ViewWidth:         defaultViewWidth,
		ViewHeight:        defaultViewHeight,
		HandleRadius:      opts.HandleRadius,
		SnapRadius:        opts.SnapRadius,
		AssumeCenter:      opts.AssumeCenterIfUnmatched,
		PreviewEnabled:    defaultPreviewEnabled,
		PreviewIntervalMs: defaultPreviewIntervalMs,
		PreviewQuality:    defaultPreviewQuality,
		LogLevel:          defaultLogLevel,
	}
}

// Validate rejects out-of-range values, naming the offending key.
func (c Config) Validate() error {
	if c.ViewWidth <= 0 {
		return fmt.Errorf("view_width must be > 0")
	}
	if c.ViewHeight <= 0 {
		return fmt.Errorf("view_height must be > 0")
	}
	if err := c.EngineOptions().Validate(); err != nil {
		return err
	}
	if c.AspectRatio < 0 || math.IsNaN(c.AspectRatio) || math.IsInf(c.AspectRatio, 0) {
		return fmt.Errorf("aspect_ratio must be 0 (free) or a positive number")
	}
	if c.PreviewIntervalMs <= 0 {
		return fmt.Errorf("preview_interval_ms must be > 0")
	}
	if c.PreviewQuality <= 0 || c.PreviewQuality > 100 {
		return fmt.Errorf("preview_quality must be 1-100")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateServe applies Validate plus the requirements of the HTTP server.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.UIPassword) == "" {
		return errors.New("ui_password is required")
	}
	return nil
}

// EngineOptions returns the crop engine options.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		HandleRadius:            c.HandleRadius,
		SnapRadius:              c.SnapRadius,
		AssumeCenterIfUnmatched: c.AssumeCenter,
	}
}

// Ratio returns the locked aspect ratio, or nil for free-form.
func (c Config) Ratio() *float64 {
	if c.AspectRatio == 0 {
		return nil
	}
	r := c.AspectRatio
	return &r
}

// PreviewInterval returns the preview publish interval.
func (c Config) PreviewInterval() time.Duration {
	return time.Duration(c.PreviewIntervalMs) * time.Millisecond
}

// ParseLevel maps a log level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", name)
	}
}
