// Package config loads application configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POMODORO_"

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// AudioConfig configures audio output.
type AudioConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CacheDir string `yaml:"cache_dir"`
}

// NotificationsConfig toggles OS notifications.
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SoundConfig overrides one catalog track.
type SoundConfig struct {
	URL string `yaml:"url"`
}

// Config is the full application configuration.
type Config struct {
	// Dir is the directory the configuration was loaded from; state files default to it.
	Dir           string                 `yaml:"-"`
	Storage       StorageConfig          `yaml:"storage"`
	Log           LogConfig              `yaml:"log"`
	Audio         AudioConfig            `yaml:"audio"`
	Notifications NotificationsConfig    `yaml:"notifications"`
	Sounds        map[string]SoundConfig `yaml:"sounds"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		Dir:           dir,
		Storage:       StorageConfig{Backend: "yaml"},
		Log:           LogConfig{Level: "info", Format: "text"},
		Audio:         AudioConfig{Enabled: true},
		Notifications: NotificationsConfig{Enabled: true},
	}
}

// Load reads dir/config.yaml over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(dir string) (Config, error) {
	cfg := Default(dir)
	path := filepath.Join(dir, FileName)

	rawData, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(rawData, &cfg); err != nil {
			return Default(dir), fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

// SoundURLs returns the configured URL overrides by sound id.
func (cfg Config) SoundURLs() map[string]string {
	urls := make(map[string]string, len(cfg.Sounds))
	for id, sound := range cfg.Sounds {
		if strings.TrimSpace(sound.URL) != "" {
			urls[id] = sound.URL
		}
	}
	return urls
}

// AudioCacheDir returns the decoded track cache directory.
func (cfg Config) AudioCacheDir() string {
	if cfg.Audio.CacheDir != "" {
		return cfg.Audio.CacheDir
	}
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "pomodoro", "sounds")
	}
	return ""
}

func (cfg *Config) normalize() {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "yaml"
	}
}

func applyEnv(cfg *Config) {
	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Path = getEnv("STORAGE_PATH", cfg.Storage.Path)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Audio.Enabled = getBoolEnv("AUDIO_ENABLED", cfg.Audio.Enabled)
	cfg.Audio.CacheDir = getEnv("AUDIO_CACHE_DIR", cfg.Audio.CacheDir)
	cfg.Notifications.Enabled = getBoolEnv("NOTIFICATIONS_ENABLED", cfg.Notifications.Enabled)
}

func getEnv(key, def string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}
