// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for reproschema configuration.
	DefaultConfigDir = ".reproschema"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultRegistryFile is the default registry database file name.
	DefaultRegistryFile = "registry.db"
)

// Config holds workspace defaults (read-only after init). Every value here
// is threaded explicitly into schema construction; there is no ambient
// default registry.
type Config struct {
	Language      string         `yaml:"language,omitempty"`
	SchemaVersion string         `yaml:"schema_version,omitempty"`
	Version       string         `yaml:"version,omitempty"`
	Context       ContextConfig  `yaml:"context,omitempty"`
	Output        OutputConfig   `yaml:"output,omitempty"`
	Registry      RegistryConfig `yaml:"registry,omitempty"`
}

// ContextConfig holds the repository coordinates the @context URL is built
// from.
type ContextConfig struct {
	Org  string `yaml:"org,omitempty"`
	Repo string `yaml:"repo,omitempty"`
	// URL overrides the generated context URL entirely when set.
	URL string `yaml:"url,omitempty"`
}

// OutputConfig holds where generated schema files go.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// RegistryConfig holds configuration for the schema registry database.
type RegistryConfig struct {
	// Path is the file path to the SQLite database. Empty means
	// <base>/.reproschema/registry.db.
	Path string `yaml:"path,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Language:      "en",
		SchemaVersion: "1.0.0-rc4",
		Version:       "0.0.1",
		Context: ContextConfig{
			Org:  "ReproNim",
			Repo: "reproschema",
		},
		Output: OutputConfig{
			Dir: "schemas",
		},
	}
}

// Load loads configuration from the .reproschema directory in the given
// path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'reproschema init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if lang := os.Getenv("REPROSCHEMA_LANG"); lang != "" {
		c.Language = lang
	}
	if version := os.Getenv("REPROSCHEMA_VERSION"); version != "" {
		c.SchemaVersion = version
	}
}

// ConfigDir returns the path to the .reproschema config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// RegistryPath returns the registry database path, honoring an explicit
// override in the config.
func (c *Config) RegistryPath(basePath string) string {
	if c.Registry.Path != "" {
		return c.Registry.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultRegistryFile)
}

// Exists checks if a reproschema config exists in the given path.
func Exists(basePath string) bool {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	_, err := os.Stat(configFile)
	return err == nil
}
