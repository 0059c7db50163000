// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for aiconsole.
//
// Configuration sources, in order of precedence:
//   - Environment variables (AICONSOLE_API_BASE_URL, AICONSOLE_MODEL)
//   - ~/.aiconsole/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/aiconsole/internal/util"
)

// Environment variable overrides.
const (
	EnvBaseURL = "AICONSOLE_API_BASE_URL"
	EnvModel   = "AICONSOLE_MODEL"
)

// DefaultBaseURL is used when neither the environment nor the config file
// name a generation endpoint.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete aiconsole configuration.
type Config struct {
	// APIBaseURL is the generation service base URL.
	APIBaseURL string `toml:"api_base_url"`

	// DefaultModel is sent with queries when the user has not picked a
	// model. Empty lets the service choose.
	DefaultModel string `toml:"default_model"`

	// UI holds terminal UI settings.
	UI UIConfig `toml:"ui"`

	// Storage holds persistence settings.
	Storage StorageConfig `toml:"storage"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// ShowThinking controls whether the reasoning panel is visible while
	// the model streams thinking text.
	ShowThinking bool `toml:"show_thinking"`
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	// Path is the state database location (empty = ~/.aiconsole/state.db).
	Path string `toml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL: DefaultBaseURL,
		UI: UIConfig{
			ShowThinking: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.aiconsole, creating it if needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(home, ".aiconsole")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the config file location.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StatePath resolves the state database location, honoring the configured
// override.
func (c *Config) StatePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file (when present), then applies environment
// overrides. A missing file is not an error; defaults fill the gaps.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a specific config file path, applying defaults and
// environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config values from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.DefaultModel = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_base_url %q", c.APIBaseURL)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to a specific path atomically.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	buf.WriteString("# aiconsole configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
