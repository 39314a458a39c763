// Package config handles configuration for nearbychat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/diogo/nearbychat/internal/models"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" env:"NEARBYCHAT_MARKDOWN_STYLE"` // glamour standard style name
	EnableEmoji      bool   `json:"enable_emoji"`                          // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`                     // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the assistant URL every query is posted to.
	Endpoint string `json:"endpoint" env:"NEARBYCHAT_ENDPOINT"`

	// ClientID, UserID, Lat and Long form the request context sent
	// unchanged with every query.
	ClientID string  `json:"client_id" env:"NEARBYCHAT_CLIENT_ID"`
	UserID   string  `json:"user_id" env:"NEARBYCHAT_USER_ID"`
	Lat      float64 `json:"lat" env:"NEARBYCHAT_LAT"`
	Long     float64 `json:"long" env:"NEARBYCHAT_LONG"`

	// LiveMode is the initial state of the live-mode toggle.
	LiveMode bool `json:"live_mode" env:"NEARBYCHAT_LIVE_MODE"`

	// TimeoutSeconds bounds a request. Zero leaves requests unbounded.
	TimeoutSeconds int `json:"timeout_seconds" env:"NEARBYCHAT_TIMEOUT_SECONDS"`

	Verbose         bool           `json:"verbose" env:"NEARBYCHAT_VERBOSE"`
	LogLevel        string         `json:"log_level" env:"NEARBYCHAT_LOG_LEVEL"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"NEARBYCHAT_TUI_THEME"`
	Markdown        MarkdownConfig `json:"markdown"`
}

// Default request context, matching the values the assistant backend was
// deployed with
const (
	DefaultClientID = "9a1b2c3d-4e5f-4a91-8911-2c3d4e500001"
	DefaultUserID   = "user123"
	DefaultLat      = 19.564262
	DefaultLong     = 74.206425
)

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        models.DefaultEndpoint,
		ClientID:        DefaultClientID,
		UserID:          DefaultUserID,
		Lat:             DefaultLat,
		Long:            DefaultLong,
		LiveMode:        false,
		TimeoutSeconds:  0,
		Verbose:         false,
		LogLevel:        "info",
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// RequestContext returns the static fields sent with every request
func (c Config) RequestContext() models.RequestContext {
	return models.RequestContext{
		ClientID: c.ClientID,
		UserID:   c.UserID,
		Lat:      c.Lat,
		Long:     c.Long,
	}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an absolute http(s) URL", c.Endpoint)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("invalid lat %v: must be within [-90, 90]", c.Lat)
	}
	if c.Long < -180 || c.Long > 180 {
		return fmt.Errorf("invalid long %v: must be within [-180, 180]", c.Long)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid timeout_seconds %d: must not be negative", c.TimeoutSeconds)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".nearbychat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the log file used by the chat TUI
func GetLogPath() (string, error) {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "nearbychat.log"), nil
}

// LoadConfig loads the configuration from disk, then applies a .env file in
// the working directory and NEARBYCHAT_* environment variables on top
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom is LoadConfig with an explicit file path. A missing file is
// not an error.
func LoadConfigFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	// A missing .env is the common case
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to read environment: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	return SaveConfigTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveConfigTo writes cfg as indented JSON to configPath
func SaveConfigTo(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
