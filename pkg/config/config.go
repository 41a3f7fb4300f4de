// Package config loads and writes the vidmux configuration file: cache
// location, search tuning, and the per-source blocks that declare which
// backends exist. It also derives the reactive Settings snapshot the
// session subscribes to.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vidmux/pkg/core"
	"vidmux/pkg/settings"
)

//go:embed config.toml.sample
var configTemplate string

type Config struct {
	DataDir       string                `toml:"data_dir"`
	SortBy        string                `toml:"sort_by"`
	ResultLimit   int                   `toml:"result_limit"`
	SourceTimeout Duration              `toml:"source_timeout"`
	Sources       map[string]SourceInfo `toml:"sources"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type SourceInfo struct {
	Type string `toml:"type"`
	// Enabled defaults to true when omitted, so listing a source in the
	// config is enough to use it.
	Enabled *bool       `toml:"enabled,omitempty"`
	Config  interface{} `toml:"config"`
}

// IsEnabled resolves the optional enabled flag.
func (s SourceInfo) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	return &Config{
		DataDir:       dataDir,
		SortBy:        string(core.DefaultSort),
		ResultLimit:   25,
		SourceTimeout: Duration{15 * time.Second},
		Sources:       make(map[string]SourceInfo),
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.DataDir == "" {
		dataDir, err := GetDefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("getting default data directory: %w", err)
		}
		config.DataDir = dataDir
	}

	if config.SortBy == "" {
		config.SortBy = string(core.DefaultSort)
	}

	if config.ResultLimit <= 0 {
		config.ResultLimit = 25
	}

	if config.SourceTimeout.Duration == 0 {
		config.SourceTimeout = Duration{15 * time.Second}
	}

	if config.Sources == nil {
		config.Sources = make(map[string]SourceInfo)
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration, pointing
// its data_dir at the real default.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	dataDir := c.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = GetDefaultDataDir()
		if err != nil {
			return "", fmt.Errorf("getting default data directory: %w", err)
		}
	}

	// Replace the placeholder data_dir with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/vidmux", dataDir, 1)
	return template, nil
}

// GetSourceConfig returns the type and raw config block for a source.
func (c *Config) GetSourceConfig(name string) (string, interface{}, error) {
	info, exists := c.Sources[name]
	if !exists {
		return "", nil, fmt.Errorf("source %s not found", name)
	}

	return info.Type, info.Config, nil
}

// RemoveSource deletes a source block from the config.
func (c *Config) RemoveSource(name string) {
	delete(c.Sources, name)
}

// ListSources returns configured source names in sorted order.
func (c *Config) ListSources() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CachePath returns the location of the result cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// Settings derives the reactive settings snapshot from the config.
// Sources come out in sorted name order so repeated derivations compare
// equal.
func (c *Config) Settings() settings.Settings {
	derived := settings.Settings{
		SortBy: core.ParseSortBy(c.SortBy),
	}
	for _, name := range c.ListSources() {
		derived.Sources = append(derived.Sources, settings.SourceSetting{
			ID:      name,
			Enabled: c.Sources[name].IsEnabled(),
		})
	}
	return derived
}

// LoadSettings reads the config at path and derives settings from it.
// Matches settings.LoadFunc so a watcher can feed a store directly.
func LoadSettings(path string) (settings.Settings, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return settings.Settings{}, err
	}
	return cfg.Settings(), nil
}

// GetDefaultDataDir returns the default directory for the cache database
func GetDefaultDataDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	vidmuxDir := filepath.Join(dataDir, "vidmux")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(vidmuxDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", vidmuxDir, err)
	}

	return vidmuxDir, nil
}

// GetConfigDir returns the configuration directory for vidmux
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	vidmuxConfigDir := filepath.Join(configDir, "vidmux")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(vidmuxConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", vidmuxConfigDir, err)
	}

	return vidmuxConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
