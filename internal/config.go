package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds agent settings. Values come from defaults, then an optional
// YAML file, then RECORDER_* environment variables, then command flags.
type Config struct {
	Addr               string   `yaml:"addr"`
	DataDir            string   `yaml:"data_dir,omitempty"`
	LogLevel           string   `yaml:"log_level"`
	MergeWindowMs      int      `yaml:"merge_window_ms"`
	InteractionHistory int      `yaml:"interaction_history"`
	SkipURLPrefixes    []string `yaml:"skip_url_prefixes,omitempty"`
	AutoSave           bool     `yaml:"auto_save"`
	CORSAllowOrigin    string   `yaml:"cors_allow_origin"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		Addr:               "127.0.0.1:8123",
		LogLevel:           "info",
		MergeWindowMs:      int(DefaultMergeWindow / time.Millisecond),
		InteractionHistory: DefaultInteractionHistory,
		AutoSave:           true,
		CORSAllowOrigin:    "*",
	}
}

// LoadConfig reads path over the defaults and applies the environment. A
// missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			LogDebug("No config file at %s, using defaults", path)
		case err != nil:
			return Config{}, &ConfigError{Path: path, Err: err}
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, &ConfigError{Path: path, Err: fmt.Errorf("failed to parse yaml: %w", err)}
			}
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// ApplyEnv overrides fields from RECORDER_* environment variables
func (c *Config) ApplyEnv() {
	c.Addr = getEnv("RECORDER_ADDR", c.Addr)
	c.DataDir = getEnv("RECORDER_DATA_DIR", c.DataDir)
	c.LogLevel = getEnv("RECORDER_LOG_LEVEL", c.LogLevel)
	c.MergeWindowMs = getEnvInt("RECORDER_MERGE_WINDOW_MS", c.MergeWindowMs)
	c.CORSAllowOrigin = getEnv("RECORDER_CORS_ALLOW_ORIGIN", c.CORSAllowOrigin)
	if v := os.Getenv("RECORDER_AUTO_SAVE"); v != "" {
		c.AutoSave = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("RECORDER_SKIP_URL_PREFIXES")); v != "" {
		c.SkipURLPrefixes = splitCSV(v)
	}
}

// Validate checks field ranges
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.MergeWindowMs < 0 {
		return fmt.Errorf("merge_window_ms must not be negative")
	}
	if c.InteractionHistory < 0 {
		return fmt.Errorf("interaction_history must not be negative")
	}
	return nil
}

// RecorderOptions derives recorder options from the config
func (c Config) RecorderOptions() RecorderOptions {
	return RecorderOptions{
		MergeWindow:        time.Duration(c.MergeWindowMs) * time.Millisecond,
		InteractionHistory: c.InteractionHistory,
		SkipURLPrefixes:    c.SkipURLPrefixes,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		LogWarn("Ignoring %s=%q: not an integer", key, v)
	}
	return def
}

// splitCSV splits comma-separated tokens trimming whitespace and skipping empties
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
