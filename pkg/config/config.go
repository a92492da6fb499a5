// Package config loads the YAML configuration for a segment directory
// and its journaling defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level jrnlctl/service configuration.
type Config struct {
	// SegmentDir is the directory segment files and the rid index live in.
	SegmentDir string `yaml:"segment_dir"`
	// CleanPadding fills unused trailing block bytes with jrnl.CleanChar
	// on encode, making truncation visible in a hex dump.
	CleanPadding bool `yaml:"clean_padding"`
	// MaxPageDblks bounds how many disk blocks a single Writer.Append
	// page covers; zero means a record is always written in one call.
	MaxPageDblks uint64 `yaml:"max_page_dblks"`
	// MetricsAddr, when non-empty, is the address jrnlctl scan serves
	// /metrics on via promhttp. Empty disables metrics serving.
	MetricsAddr string  `yaml:"metrics_addr"`
	Logging     Logging `yaml:"logging"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration suitable for local use.
func DefaultConfig() *Config {
	return &Config{
		SegmentDir:   "./data",
		CleanPadding: false,
		MaxPageDblks: 0,
		MetricsAddr:  "",
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads and parses the YAML configuration at path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		path = absPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save writes config to path with restrictive permissions, creating
// its parent directory if needed.
func Save(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
