package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fta/bluesky"

	"github.com/BurntSushi/toml"
)

const (
	AppDirName       = "feed-the-atmosphere"
	CacheFileName    = "feeds.json"
	DatabaseFileName = "history.db"
	ConfigFileName   = "config.toml"

	DefaultFeed        = "following"
	DefaultMinutes     = 60
	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiConfig holds settings for the summarizer
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Config is passed explicitly to every entry point instead of being read
// from the environment deep in the call stack
type Config struct {
	Handle         string       `toml:"handle"`
	Password       string       `toml:"password"`
	Host           string       `toml:"host"`
	CachePath      string       `toml:"cache_path"`
	DatabasePath   string       `toml:"database_path"`
	DefaultFeed    string       `toml:"default_feed"`
	DefaultMinutes int          `toml:"default_minutes"`
	Gemini         GeminiConfig `toml:"gemini"`
}

// ConfigError reports a required setting that is missing
type ConfigError struct {
	Field  string
	EnvVar string
}

func (e *ConfigError) Error() string {
	if e.EnvVar != "" {
		return fmt.Sprintf("missing %s: set %s", e.Field, e.EnvVar)
	}
	return fmt.Sprintf("missing %s", e.Field)
}

// IsConfigError reports whether err is or wraps a *ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Dir returns the per-user application directory
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find user config directory: %w", err)
	}
	return filepath.Join(dir, AppDirName), nil
}

// Default returns a config with every optional setting filled in
func Default() *Config {
	cfg := &Config{
		Host:           bluesky.DefaultPDSHost,
		DefaultFeed:    DefaultFeed,
		DefaultMinutes: DefaultMinutes,
		Gemini: GeminiConfig{
			Model: DefaultGeminiModel,
		},
	}

	if dir, err := Dir(); err == nil {
		cfg.CachePath = filepath.Join(dir, CacheFileName)
		cfg.DatabasePath = filepath.Join(dir, DatabaseFileName)
	} else {
		cfg.CachePath = CacheFileName
		cfg.DatabasePath = DatabaseFileName
	}

	return cfg
}

// LoadConfig reads a TOML config file on top of the defaults. A missing file
// is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Host == "" {
		cfg.Host = bluesky.DefaultPDSHost
	}
	if cfg.DefaultFeed == "" {
		cfg.DefaultFeed = DefaultFeed
	}
	if cfg.DefaultMinutes <= 0 {
		cfg.DefaultMinutes = DefaultMinutes
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultGeminiModel
	}

	return cfg, nil
}

// Validate checks that the Bluesky credentials are present
func (c *Config) Validate() error {
	if c.Handle == "" {
		return &ConfigError{Field: "Bluesky handle", EnvVar: "BLUESKY_HANDLE"}
	}
	if c.Password == "" {
		return &ConfigError{Field: "Bluesky password", EnvVar: "BLUESKY_PASSWORD"}
	}
	return nil
}

func (c *Config) Credentials() *bluesky.Credentials {
	return &bluesky.Credentials{
		Identifier: c.Handle,
		Password:   c.Password,
	}
}
