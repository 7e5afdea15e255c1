package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the config.toml configuration file
type Config struct {
	// Warehouse root override (supports ~/ prefix)
	WarehouseDir string `toml:"warehouse_dir,omitempty"`

	// Per-tool skill path overrides, keyed by tool id
	ToolPaths map[string]string `toml:"tool_paths,omitempty"`

	// Catalog settings
	Catalog CatalogConfig `toml:"catalog"`
}

// CatalogConfig holds discovery catalog settings
type CatalogConfig struct {
	// Feed URL (for self-hosted catalogs)
	URL string `toml:"url"`

	// Cache time-to-live in minutes
	TTLMinutes int `toml:"ttl_minutes"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ToolPaths: map[string]string{},
		Catalog: CatalogConfig{
			URL:        "https://skills.sh/api/v1/catalog",
			TTLMinutes: 15,
		},
	}
}

// LoadConfig loads config.toml from the skilldock directory
func LoadConfig(dockDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dockDir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.toml to the skilldock directory
func SaveConfig(dockDir string, cfg *Config) error {
	if err := os.MkdirAll(dockDir, 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dockDir, "config.toml"), data, 0644)
}
