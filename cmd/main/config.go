package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the HTTP servers.
type ServerConfig struct {
	SiteAddr     string `json:"site_addr"`
	ApiAddr      string `json:"api_addr"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	DatabasePath string `json:"database_path"`
}

// SiteConfig holds settings for page rendering and asset serving.
type SiteConfig struct {
	// IndexPage is the page served for "/".
	IndexPage string `json:"index_page"`

	// NotFoundPage, when set, names a stored page rendered for unknown
	// paths instead of the plain 404 response.
	NotFoundPage string `json:"not_found_page"`

	// AssetDir is the directory served under /assets/.
	AssetDir string `json:"asset_dir"`

	// HelperSources names the helper sources loaded at startup, resolved
	// through the catalog.
	HelperSources []string `json:"helper_sources"`

	// EventLogSize bounds the in-memory lifecycle event log.
	EventLogSize int `json:"event_log_size"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server *ServerConfig `json:"server_config"`
	Site   *SiteConfig   `json:"site_config"`
}

// Validate checks that every config section is present. A JSON payload can
// null out a whole section, and handlers dereference the sections without
// re-checking.
func (c *Config) Validate() error {
	if c.Server == nil {
		return errors.New("missing server_config section")
	}
	if c.Site == nil {
		return errors.New("missing site_config section")
	}
	return nil
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		SiteAddr:     ":7280",
		ApiAddr:      ":7281",
		LogLevel:     "info",
		DataDir:      "./data",
		DatabasePath: "./data/tendril.db?_journal_mode=WAL&_busy_timeout=5000",
	}
}

// DefaultSiteConfig creates a site configuration with default values.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		IndexPage:     "index",
		NotFoundPage:  "",
		AssetDir:      "./data/assets",
		HelperSources: []string{"text", "math", "logic"},
		EventLogSize:  256,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Server: DefaultServerConfig(),
		Site:   DefaultSiteConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			if err = SaveConfig(path, config); err != nil {
				// The server can still run with defaults, so only warn.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return config, nil
}

// SaveConfig persists the configuration to disk atomically, so a crash
// mid-write never leaves a truncated config behind.
func SaveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
