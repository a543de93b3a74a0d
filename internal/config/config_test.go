package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PacksURL != defaultPacksURL {
		t.Fatalf("PacksURL = %q, want %q", cfg.PacksURL, defaultPacksURL)
	}
	if cfg.HomeserverURL != defaultHomeserverURL {
		t.Fatalf("HomeserverURL = %q, want %q", cfg.HomeserverURL, defaultHomeserverURL)
	}
	if cfg.Listen != defaultListen {
		t.Fatalf("Listen = %q, want %q", cfg.Listen, defaultListen)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.StrictOrigin || len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("origin settings = %v/%v, want permissive defaults", cfg.StrictOrigin, cfg.AllowedOrigins)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
packs_url = "  https://stickers.example/packs/  "
homeserver_url = "https://hs.example/"
listen = " 0.0.0.0:9000 "
allowed_origins = ["https://app.element.io", "  ", " https://chat.example "]
strict_origin = true
request_timeout_seconds = 5
log_dir = "  ~/.stickerpicker/logs  "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PacksURL != "https://stickers.example/packs/" {
		t.Fatalf("PacksURL = %q", cfg.PacksURL)
	}
	if cfg.HomeserverURL != "https://hs.example" {
		t.Fatalf("HomeserverURL = %q, want trailing slash trimmed", cfg.HomeserverURL)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Fatalf("Listen = %q, want %q", cfg.Listen, "0.0.0.0:9000")
	}
	want := []string{"https://app.element.io", "https://chat.example"}
	if strings.Join(cfg.AllowedOrigins, ",") != strings.Join(want, ",") {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if !cfg.StrictOrigin {
		t.Fatalf("StrictOrigin = false, want true")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
packs_url = "   "
listen = ""
log_dir = ""
request_timeout_seconds = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PacksURL != defaultPacksURL || cfg.Listen != defaultListen {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad toml", `packs_url = [`},
		{"negative timeout", `request_timeout_seconds = -1`},
		{"wrong type", `strict_origin = "yes"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want parse error")
			}
			if !strings.Contains(err.Error(), "parse config") {
				t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var empty Config
	got := empty.LogPath()
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, filepath.FromSlash("/stickerpicker.log")) {
		t.Fatalf("LogPath = %q, want stickerpicker.log under HOME %q", got, home)
	}

	cfg := Config{LogDir: "/var/log/picker"}
	if got := cfg.LogPath(); got != filepath.Join("/var/log/picker", "stickerpicker.log") {
		t.Fatalf("LogPath = %q", got)
	}
}
