// Package config handles configuration persistence for deepchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EnvAPIKey is the environment variable consulted for a default API key
const EnvAPIKey = "SILICONFLOW_API_KEY"

// fallbackAPIKey is used when neither settings nor the environment provide
// a key. It is a placeholder, not a working credential.
const fallbackAPIKey = "sk-deepchat-placeholder-key"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Settings represents the user configuration. It is written wholesale on
// every save; there is no versioning or migration beyond field defaulting.
type Settings struct {
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"` // in [0,1]
	Theme       string  `json:"theme,omitempty"`
	// DuetMode streams an expert answer followed by a professor commentary
	// for every user message.
	DuetMode bool           `json:"duet_mode"`
	Verbose  bool           `json:"verbose"`
	Markdown MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultSettings returns the default configuration
func DefaultSettings() Settings {
	return Settings{
		APIKey:      DefaultAPIKey(),
		Model:       "deepseek-ai/DeepSeek-V2.5",
		Temperature: 0.5,
		Theme:       "blue",
		DuetMode:    false,
		Verbose:     false,
		Markdown:    DefaultMarkdownConfig(),
	}
}

// DefaultAPIKey returns the environment-provided key, falling back to the
// baked-in placeholder.
func DefaultAPIKey() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return fallbackAPIKey
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".deepchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the settings file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadSettings loads the settings from disk, defaulting missing fields
func LoadSettings() (Settings, error) {
	cfg := DefaultSettings()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// An explicitly empty key reverts to the environment default
	if cfg.APIKey == "" {
		cfg.APIKey = DefaultAPIKey()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultSettings().Model
	}

	return cfg, nil
}

// SaveSettings saves the settings to disk
func SaveSettings(cfg Settings) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 0o600: the file contains the API key
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AvailableThemes returns the selectable TUI theme keys
func AvailableThemes() []string {
	return []string{
		"blue",
		"green",
		"purple",
		"tokyonight",
	}
}
