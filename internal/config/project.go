package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a .pyextract.yaml file in a source tree
type ProjectConfig struct {
	Version string `yaml:"version"`

	// File patterns
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// Only process files tracked by git
	GitOnly bool `yaml:"git_only,omitempty"`

	// Number of parallel extraction workers (0 = use global config)
	Workers int `yaml:"workers,omitempty"`

	// Emit compact JSON instead of two-space indented
	Compact bool `yaml:"compact,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1.0",
		Exclude: []string{
			"**/.venv/**",
			"**/__pycache__/**",
			"**/node_modules/**",
		},
	}
}

// LoadProjectConfig loads a .pyextract.yaml from the given directory
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ".pyextract.yaml")

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Also try .pyextract.yml
		configPath = filepath.Join(dir, ".pyextract.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return DefaultProjectConfig(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge applies overrides from another config (e.g., CLI flags)
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if len(other.Include) > 0 {
		c.Include = other.Include
	}
	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}
	if other.GitOnly {
		c.GitOnly = true
	}
	if other.Workers > 0 {
		c.Workers = other.Workers
	}
	if other.Compact {
		c.Compact = true
	}
}
