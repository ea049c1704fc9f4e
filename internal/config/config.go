package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultQuery drives the demo database mode when the config does not
// override it. First column is the row id, second the section value.
const DefaultQuery = `SELECT id, category, title FROM tasks ORDER BY category, position`

// Config holds application configuration.
type Config struct {
	Theme          string `toml:"theme"`
	Database       string `toml:"database"`
	Query          string `toml:"query"`
	DebounceMillis int    `toml:"debounce_millis"`
}

// Load loads the config file from the standard location.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file.
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Theme == "" {
		c.Theme = "tokyo-night"
	}
	if c.Query == "" {
		c.Query = DefaultQuery
	}
	if c.DebounceMillis <= 0 {
		c.DebounceMillis = 150
	}
}

// getConfigPath returns the path to the config file.
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "tui-listview", "config.toml"), nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// Save persists the configuration to the TOML file.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
