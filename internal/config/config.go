// Package config loads the application configuration from a YAML file with
// environment variable overrides, and can watch the file for live changes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither file nor environment provides a value.
const (
	DefaultCacheFile  = "notter.db"
	DefaultDebounce   = 500 * time.Millisecond
	DefaultLanguage   = "en"
	DefaultProbeEvery = 30 * time.Second
)

// Config is the full application configuration.
type Config struct {
	RemoteURL  string `yaml:"remote_url"`
	RemoteKey  string `yaml:"remote_key"`
	CachePath  string `yaml:"cache_path"`
	DebounceMS int    `yaml:"debounce_ms"`
	ProbeSec   int    `yaml:"probe_sec"`
	Language   string `yaml:"language"`
	Verbose    bool   `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CachePath:  DefaultCacheFile,
		DebounceMS: int(DefaultDebounce / time.Millisecond),
		ProbeSec:   int(DefaultProbeEvery / time.Second),
		Language:   DefaultLanguage,
	}
}

// Load reads path (when non-empty and present) over the defaults, then
// applies NOTTER_* environment overrides. A missing file is not an error;
// a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NOTTER_REMOTE_URL"); v != "" {
		cfg.RemoteURL = v
	}
	if v := os.Getenv("NOTTER_REMOTE_KEY"); v != "" {
		cfg.RemoteKey = v
	}
	if v := os.Getenv("NOTTER_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("NOTTER_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("NOTTER_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.DebounceMS = ms
		}
	}
	if v := os.Getenv("NOTTER_PROBE_SEC"); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			cfg.ProbeSec = s
		}
	}
}

// Debounce returns the configured edit debounce window.
func (c Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return DefaultDebounce
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ProbeInterval returns the connectivity probe period.
func (c Config) ProbeInterval() time.Duration {
	if c.ProbeSec <= 0 {
		return DefaultProbeEvery
	}
	return time.Duration(c.ProbeSec) * time.Second
}
