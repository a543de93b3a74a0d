package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the picker's runtime settings.
type Config struct {
	PacksURL       string
	HomeserverURL  string
	Listen         string
	AllowedOrigins []string
	StrictOrigin   bool
	RequestTimeout time.Duration
	LogDir         string
}

const (
	defaultConfigPath     = "~/.config/stickerpicker/config.toml"
	defaultLogDir         = "~/.local/share/stickerpicker/logs"
	defaultPacksURL       = "http://127.0.0.1:8080/packs/"
	defaultHomeserverURL  = "https://matrix-client.matrix.org"
	defaultListen         = "127.0.0.1:7490"
	defaultRequestTimeout = 30 * time.Second
	logFileName           = "stickerpicker.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		PacksURL:       defaultPacksURL,
		HomeserverURL:  defaultHomeserverURL,
		Listen:         defaultListen,
		RequestTimeout: defaultRequestTimeout,
		LogDir:         mustExpand(defaultLogDir),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		PacksURL              string   `toml:"packs_url"`
		HomeserverURL         string   `toml:"homeserver_url"`
		Listen                string   `toml:"listen"`
		AllowedOrigins        []string `toml:"allowed_origins"`
		StrictOrigin          bool     `toml:"strict_origin"`
		RequestTimeoutSeconds int      `toml:"request_timeout_seconds"`
		LogDir                string   `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.PacksURL); v != "" {
		cfg.PacksURL = v
	}
	if v := strings.TrimSpace(raw.HomeserverURL); v != "" {
		cfg.HomeserverURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		cfg.Listen = v
	}
	for _, origin := range raw.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	cfg.StrictOrigin = raw.StrictOrigin
	if raw.RequestTimeoutSeconds < 0 {
		return Config{}, errors.New("parse config: request_timeout_seconds must not be negative")
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}

	return cfg, nil
}

// LogPath returns the path of the picker's log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
