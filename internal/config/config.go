// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and the credential source
// for refchat.
//
// Configuration is read from ~/.refchat/config.toml with environment
// variable overrides, falling back to built-in defaults. The core chat
// packages never read the environment directly; this package is the only
// place credentials enter the process.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/refchat/internal/catalog"
	"github.com/jeranaias/refchat/internal/llm"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete refchat configuration.
type Config struct {
	// DefaultProvider is the provider used when none is selected.
	DefaultProvider string `toml:"default_provider"`
	// DefaultModel is the model used when none is selected.
	DefaultModel string `toml:"default_model"`

	// Providers holds per-provider credentials.
	Providers ProvidersConfig `toml:"providers"`

	// Context configures the selected-text context source.
	Context ContextConfig `toml:"context"`

	// Server configures the local HTTP API.
	Server ServerConfig `toml:"server"`

	// UI configures the terminal interface.
	UI UIConfig `toml:"ui"`
}

// ProvidersConfig holds credentials for each supported provider.
type ProvidersConfig struct {
	OpenAI     ProviderConfig `toml:"openai"`
	OpenRouter ProviderConfig `toml:"openrouter"`
}

// ProviderConfig holds one provider's settings.
type ProviderConfig struct {
	// APIKey is the bearer token for the provider.
	APIKey string `toml:"api_key"`
}

// ContextConfig configures where selected document text is read from.
type ContextConfig struct {
	// SelectionFile is a path written by a document viewer integration.
	// Empty disables context injection.
	SelectionFile string `toml:"selection_file"`
}

// ServerConfig configures the local HTTP API server.
type ServerConfig struct {
	// Port is the listen port for `refchat serve`.
	Port int `toml:"port"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Markdown enables glamour rendering of assistant replies.
	Markdown bool `toml:"markdown"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: catalog.OpenAI.String(),
		DefaultModel:    catalog.DefaultModel(catalog.OpenAI),
		Server: ServerConfig{
			Port: 8790,
		},
		UI: UIConfig{
			Markdown: true,
		},
	}
}

// Dir returns the refchat configuration directory (~/.refchat).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".refchat"), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from the default path, applying defaults
// for anything unset and environment overrides on top. A missing config
// file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path. A missing file
// yields defaults plus environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables over file values.
// The standard provider variables win over refchat-specific ones.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("REFCHAT_OPENAI_KEY"); key != "" {
		c.Providers.OpenAI.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Providers.OpenAI.APIKey = key
	}
	if key := os.Getenv("REFCHAT_OPENROUTER_KEY"); key != "" {
		c.Providers.OpenRouter.APIKey = key
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.Providers.OpenRouter.APIKey = key
	}
	if m := os.Getenv("REFCHAT_MODEL"); m != "" {
		c.DefaultModel = m
	}
	if p := os.Getenv("REFCHAT_PROVIDER"); p != "" {
		c.DefaultProvider = p
	}
	if f := os.Getenv("REFCHAT_SELECTION_FILE"); f != "" {
		c.Context.SelectionFile = f
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.DefaultProvider != "" && !catalog.Known(catalog.Provider(c.DefaultProvider)) {
		return fmt.Errorf("unknown default_provider %q", c.DefaultProvider)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Save writes the configuration to the default path, creating the
// directory if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "config.toml"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// CREDENTIAL SOURCE
// =============================================================================

// Credentials adapts a Config into the controller's credential source.
type Credentials struct {
	cfg *Config
}

// NewCredentials creates a credential source over cfg.
func NewCredentials(cfg *Config) *Credentials {
	return &Credentials{cfg: cfg}
}

// APIKey resolves the key for a provider. A missing key or unknown
// provider yields *llm.ConfigError before any request is attempted.
func (c *Credentials) APIKey(p catalog.Provider) (string, error) {
	var key string
	switch p {
	case catalog.OpenAI:
		key = c.cfg.Providers.OpenAI.APIKey
	case catalog.OpenRouter:
		key = c.cfg.Providers.OpenRouter.APIKey
	default:
		return "", &llm.ConfigError{Provider: p, Reason: "unsupported provider"}
	}

	if key == "" {
		return "", &llm.ConfigError{Provider: p, Reason: "missing API key"}
	}
	return key, nil
}
