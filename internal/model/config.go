package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds connection settings for the auction backend.
type ServerConfig struct {
	// BaseURL is the root URL of the auction service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// ReconnectDelaySec is how long to wait before re-dialing the push
	// channel after a disconnect.
	ReconnectDelaySec int `mapstructure:"reconnect_delay_sec" yaml:"reconnect_delay_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// ToastDurationMs is how long a notification stays on screen.
	ToastDurationMs int `mapstructure:"toast_duration_ms" yaml:"toast_duration_ms"`

	// FlashDurationMs is how long an item row stays highlighted after
	// a bid update.
	FlashDurationMs int `mapstructure:"flash_duration_ms" yaml:"flash_duration_ms"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// ReconnectDelay returns the push channel's fixed reconnect delay.
func (c *AppConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.Server.ReconnectDelaySec) * time.Second
}

// ToastDuration returns how long a notification stays visible.
func (c *AppConfig) ToastDuration() time.Duration {
	return time.Duration(c.Display.ToastDurationMs) * time.Millisecond
}

// FlashDuration returns how long a price flash stays highlighted.
func (c *AppConfig) FlashDuration() time.Duration {
	return time.Duration(c.Display.FlashDurationMs) * time.Millisecond
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/silent-auction/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "silent-auction", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:           "http://localhost:8000",
			ReconnectDelaySec: 3,
		},
		Display: DisplayConfig{
			ToastDurationMs: 3600,
			FlashDurationMs: 1500,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.reconnect_delay_sec", 3)
	v.SetDefault("display.toast_duration_ms", 3600)
	v.SetDefault("display.flash_duration_ms", 1500)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Server.ReconnectDelaySec <= 0 {
		cfg.Server.ReconnectDelaySec = 3
	}
	if cfg.Display.ToastDurationMs <= 0 {
		cfg.Display.ToastDurationMs = 3600
	}
	if cfg.Display.FlashDurationMs <= 0 {
		cfg.Display.FlashDurationMs = 1500
	}

	return cfg, nil
}
