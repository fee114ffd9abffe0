package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "CROPSLICE"

	envFileName = ".env"
)

// Loader layers defaults, an optional YAML file, DATA_DIR/.env, and
// CROPSLICE_* environment variables, in increasing priority.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Viper returns the underlying viper instance so flags can be bound to keys.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads configuration and validates it. configFile may be empty.
func (l *Loader) Load(configFile string) (*Config, error) {
	cfg, err := l.LoadWithoutValidation(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithoutValidation reads configuration without range checks.
func (l *Loader) LoadWithoutValidation(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		l.v.SetConfigFile(configFile)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	if err := l.mergeEnvFile(filepath.Join(l.v.GetString("data_dir"), envFileName)); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.UIPassword = strings.TrimSpace(cfg.UIPassword)
	return &cfg, nil
}

// ConfigFileUsed returns the path of the YAML file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults registers every key so env lookups and Unmarshal see it.
func (l *Loader) setDefaults() {
	d := DefaultConfig()
	l.v.SetDefault("listen_addr", d.ListenAddr)
	l.v.SetDefault("ui_password", d.UIPassword)
	l.v.SetDefault("data_dir", d.DataDir)
	l.v.SetDefault("image_path", d.ImagePath)
	l.v.SetDefault("view_width", d.ViewWidth)
	l.v.SetDefault("view_height", d.ViewHeight)
	l.v.SetDefault("handle_radius", d.HandleRadius)
	l.v.SetDefault("snap_radius", d.SnapRadius)
	l.v.SetDefault("aspect_ratio", d.AspectRatio)
	l.v.SetDefault("assume_center", d.AssumeCenter)
	l.v.SetDefault("preview_enabled", d.PreviewEnabled)
	l.v.SetDefault("preview_interval_ms", d.PreviewIntervalMs)
	l.v.SetDefault("preview_quality", d.PreviewQuality)
	l.v.SetDefault("log_level", d.LogLevel)
}

// mergeEnvFile folds KEY=VALUE pairs from a .env file into the config layer.
// Keys may be bare (UI_PASSWORD) or prefixed (CROPSLICE_UI_PASSWORD).
func (l *Loader) mergeEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	prefix := strings.ToLower(EnvPrefix) + "_"
	values := make(map[string]any, len(ev.AllKeys()))
	for _, key := range ev.AllKeys() {
		values[strings.TrimPrefix(key, prefix)] = ev.Get(key)
	}
	return l.v.MergeConfigMap(values)
}
