package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the sentinel wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports a configuration value rejected at an API boundary.
type ConfigError struct {
	Field string
	Value float64
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v", ErrInvalidConfig, e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// CheckImageRect rejects image rectangles that are non-finite or have no area.
func CheckImageRect(r Rect) error {
	if !r.Finite() {
		return &ConfigError{Field: "image_rect", Value: r.Width()}
	}
	if r.Width() <= 0 {
		return &ConfigError{Field: "image_rect.width", Value: r.Width()}
	}
	if r.Height() <= 0 {
		return &ConfigError{Field: "image_rect.height", Value: r.Height()}
	}
	return nil
}
