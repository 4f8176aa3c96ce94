// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional YAML configuration file and resolves
// profiles. Flags always win over config values; the config file only
// supplies defaults for flags the user did not pass.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tablescan/internal/parallel"
	"tablescan/internal/paths"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Workers     int    `yaml:"workers"`
		Format      string `yaml:"format"`
		TableFormat string `yaml:"table_format"`
		Verbose     bool   `yaml:"verbose"`
		Debug       bool   `yaml:"debug"`
		NoColor     bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Profiles for different batch scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a named batch profile with specific settings
type Profile struct {
	Workers     int    `yaml:"workers"`
	Format      string `yaml:"format"`
	TableFormat string `yaml:"table_format"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	NoColor     bool   `yaml:"no_color"`
	TestMode    bool   `yaml:"test_mode"`
	Description string `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Workers = parallel.DefaultWorkers
	config.Defaults.Format = "text"
	config.Defaults.TableFormat = "csv"
	config.Defaults.Verbose = false
	config.Defaults.Debug = false
	config.Defaults.NoColor = false

	// Built-in profile for quick smoke runs over a directory
	config.Profiles["smoke"] = Profile{
		Workers:     1,
		Format:      "text",
		TableFormat: "csv",
		NoColor:     true,
		TestMode:    true,
		Description: "Single worker over the first few documents, for verifying a new input set",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig checks value ranges after unmarshaling. A zero worker count
// is allowed and means "use the default".
func ValidateConfig(config *Config) error {
	if config.Defaults.Workers < 0 || config.Defaults.Workers > parallel.MaxWorkers {
		return fmt.Errorf("defaults.workers must be between 1 and %d, got %d",
			parallel.MaxWorkers, config.Defaults.Workers)
	}
	if err := validateFormat(config.Defaults.Format); err != nil {
		return fmt.Errorf("defaults.format: %w", err)
	}
	if err := validateTableFormat(config.Defaults.TableFormat); err != nil {
		return fmt.Errorf("defaults.table_format: %w", err)
	}

	for name, profile := range config.Profiles {
		if profile.Workers < 0 || profile.Workers > parallel.MaxWorkers {
			return fmt.Errorf("profile %s: workers must be between 1 and %d, got %d",
				name, parallel.MaxWorkers, profile.Workers)
		}
		if profile.Format != "" {
			if err := validateFormat(profile.Format); err != nil {
				return fmt.Errorf("profile %s: format: %w", name, err)
			}
		}
		if profile.TableFormat != "" {
			if err := validateTableFormat(profile.TableFormat); err != nil {
				return fmt.Errorf("profile %s: table_format: %w", name, err)
			}
		}
	}

	return nil
}

func validateFormat(format string) error {
	switch format {
	case "", "text", "json", "csv", "xlsx":
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func validateTableFormat(format string) error {
	switch format {
	case "", "csv", "markdown":
		return nil
	}
	return fmt.Errorf("unknown table format %q", format)
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first (project-specific config)
	if fileExists("tablescan.yaml") {
		return "tablescan.yaml"
	}
	if fileExists("tablescan.yml") {
		return "tablescan.yml"
	}
	if fileExists(".tablescan.yaml") {
		return ".tablescan.yaml"
	}

	// Check standard per-user location
	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}

	// Check XDG config directory
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "tablescan", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// ListProfiles returns a list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays a named profile onto the defaults. Zero values in
// the profile leave the corresponding default untouched.
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("profile %q not found (available: %v)", name, c.ListProfiles())
	}

	if profile.Workers != 0 {
		c.Defaults.Workers = profile.Workers
	}
	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.TableFormat != "" {
		c.Defaults.TableFormat = profile.TableFormat
	}
	if profile.Verbose {
		c.Defaults.Verbose = true
	}
	if profile.Debug {
		c.Defaults.Debug = true
	}
	if profile.NoColor {
		c.Defaults.NoColor = true
	}

	return nil
}
