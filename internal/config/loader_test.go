package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points data_dir at an empty temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CROPSLICE_DATA_DIR", dir)
	return dir
}

// writeFile creates path with content, failing the test on error.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TestLoad_Defaults verifies defaults when nothing is configured.
func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ListenAddr != defaultListenAddr {
		t.Errorf("expected listen addr %s, got %s", defaultListenAddr, cfg.ListenAddr)
	}
	if cfg.ViewWidth != 1000 || cfg.ViewHeight != 800 {
		t.Errorf("unexpected view size %dx%d", cfg.ViewWidth, cfg.ViewHeight)
	}
	if cfg.HandleRadius != 24 || cfg.SnapRadius != 3 || !cfg.AssumeCenter {
		t.Errorf("unexpected engine defaults %+v", cfg.EngineOptions())
	}
	if cfg.Ratio() != nil {
		t.Errorf("expected free-form by default")
	}
	if cfg.PreviewInterval().Milliseconds() != defaultPreviewIntervalMs {
		t.Errorf("unexpected preview interval %v", cfg.PreviewInterval())
	}
}

// TestLoad_YAMLFile verifies values from an explicit config file.
func TestLoad_YAMLFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cropslice.yaml")
	writeFile(t, path, `
view_width: 640
view_height: 480
aspect_ratio: 1.5
assume_center: false
log_level: debug
`)
	loader := NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ViewWidth != 640 || cfg.ViewHeight != 480 {
		t.Errorf("unexpected view size %dx%d", cfg.ViewWidth, cfg.ViewHeight)
	}
	if r := cfg.Ratio(); r == nil || *r != 1.5 {
		t.Errorf("expected ratio 1.5, got %v", r)
	}
	if cfg.AssumeCenter {
		t.Errorf("expected assume_center false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if loader.ConfigFileUsed() != path {
		t.Errorf("expected config file %s, got %s", path, loader.ConfigFileUsed())
	}
}

// TestLoad_EnvFile verifies DATA_DIR/.env accepts bare and prefixed keys.
func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), strings.Join([]string{
		"# local overrides",
		"UI_PASSWORD=\"hunter2\"",
		"CROPSLICE_PREVIEW_QUALITY=80",
		"VIEW_WIDTH=640",
	}, "\n"))

	cfg, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.UIPassword != "hunter2" {
		t.Errorf("expected password from .env, got %q", cfg.UIPassword)
	}
	if cfg.PreviewQuality != 80 {
		t.Errorf("expected preview quality 80, got %d", cfg.PreviewQuality)
	}
	if cfg.ViewWidth != 640 {
		t.Errorf("expected view width 640, got %d", cfg.ViewWidth)
	}
}

// TestLoad_EnvOverridesEnvFile verifies process env wins over .env.
func TestLoad_EnvOverridesEnvFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "VIEW_WIDTH=640\n")
	t.Setenv("CROPSLICE_VIEW_WIDTH", "320")

	cfg, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ViewWidth != 320 {
		t.Errorf("expected env override 320, got %d", cfg.ViewWidth)
	}
}

// TestLoad_Invalid verifies validation errors name the key.
func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"CROPSLICE_PREVIEW_QUALITY":     "101",
		"CROPSLICE_VIEW_HEIGHT":         "0",
		"CROPSLICE_ASPECT_RATIO":        "-1",
		"CROPSLICE_PREVIEW_INTERVAL_MS": "0",
		"CROPSLICE_LOG_LEVEL":           "loud",
		"CROPSLICE_SNAP_RADIUS":         "-3",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			_, err := NewLoader().Load("")
			if err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
			field := strings.ToLower(strings.TrimPrefix(key, "CROPSLICE_"))
			if !strings.Contains(err.Error(), field) {
				t.Errorf("expected error to name %s, got %v", field, err)
			}
		})
	}
}

// TestLoad_MissingConfigFile verifies an explicit path must exist.
func TestLoad_MissingConfigFile(t *testing.T) {
	isolate(t)
	if _, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

// TestValidateServe verifies the server requires a password.
func TestValidateServe(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateServe(); err == nil || !strings.Contains(err.Error(), "ui_password") {
		t.Fatalf("expected ui_password error, got %v", err)
	}
	cfg.UIPassword = "secret"
	if err := cfg.ValidateServe(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestParseLevel verifies level names.
func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
}
