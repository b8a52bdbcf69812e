// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pii-redactor/internal/paths"
	"pii-redactor/internal/redactors"

	"gopkg.in/yaml.v3"
)

// Report formats understood by the formatter registry
var supportedFormats = []string{"text", "json", "yaml", "csv"}

// Settings holds the run options shared by the defaults block and profiles
type Settings struct {
	Format        string `yaml:"format"`
	Checks        string `yaml:"checks"`
	OutputDir     string `yaml:"output_dir"`
	LabelColumn   string `yaml:"label_column"`
	ReplaceMode   string `yaml:"replace_mode"`
	Workers       int    `yaml:"workers"`
	NoColor       bool   `yaml:"no_color"`
	Quiet         bool   `yaml:"quiet"`
	Debug         bool   `yaml:"debug"`
	RestrictToCWD bool   `yaml:"restrict_to_cwd"`
	MetricsFile   string `yaml:"metrics_file"`
	TraceFile     string `yaml:"trace_file"`
}

// Config represents the application configuration
type Config struct {
	Defaults Settings `yaml:"defaults"`

	// Profiles for different runs (for example a quick check or a labelled evaluation)
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile overlays the defaults. Empty strings and nil pointers leave the
// default untouched.
type Profile struct {
	Description   string `yaml:"description"`
	Format        string `yaml:"format"`
	Checks        string `yaml:"checks"`
	OutputDir     string `yaml:"output_dir"`
	LabelColumn   string `yaml:"label_column"`
	ReplaceMode   string `yaml:"replace_mode"`
	Workers       *int   `yaml:"workers"`
	NoColor       *bool  `yaml:"no_color"`
	Quiet         *bool  `yaml:"quiet"`
	Debug         *bool  `yaml:"debug"`
	RestrictToCWD *bool  `yaml:"restrict_to_cwd"`
	MetricsFile   string `yaml:"metrics_file"`
	TraceFile     string `yaml:"trace_file"`
}

// DefaultSettings returns the built-in defaults
func DefaultSettings() Settings {
	return Settings{
		Format:        "text",
		Checks:        "all",
		OutputDir:     "output",
		LabelColumn:   "pii_type",
		ReplaceMode:   string(redactors.ReplaceOffsets),
		Workers:       0,
		RestrictToCWD: true,
	}
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Defaults: DefaultSettings(),
		Profiles: make(map[string]Profile),
	}

	quiet := true
	config.Profiles["quick"] = Profile{
		Description: "Report only, no colour, contact fields only",
		Format:      "text",
		Checks:      "EMAIL,INDIAN_MOBILE",
		Quiet:       &quiet,
	}
	config.Profiles["evaluate"] = Profile{
		Description: "Labelled dataset evaluation with a JSON report",
		Format:      "json",
		LabelColumn: "pii_type",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal over the defaults so absent keys keep their default value
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns the default configuration
// together with the load error so the caller can warn about it.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
		return cfg, err
	}
	return cfg, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"pii-redactor.yaml", "pii-redactor.yml", ".pii-redactor.yaml"} {
		if fileExists(name) {
			return name
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate := filepath.Join(xdg, "pii-redactor", "config.yaml")
		if fileExists(candidate) {
			return candidate
		}
	}

	if standard := paths.GetConfigFile(); standard != "" && fileExists(standard) {
		return standard
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ValidateConfig checks the defaults and every profile
func ValidateConfig(config *Config) error {
	if err := validateSettings(config.Defaults); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for name, profile := range config.Profiles {
		if err := validateSettings(config.Defaults.WithProfile(&profile)); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.Format != "" && !isSupportedFormat(s.Format) {
		return fmt.Errorf("unknown format %q (supported: %s)", s.Format, strings.Join(supportedFormats, ", "))
	}
	if _, err := redactors.ParseReplaceMode(s.ReplaceMode); err != nil {
		return err
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	if err := paths.ValidatePath(s.OutputDir); err != nil {
		return err
	}
	if err := paths.ValidatePath(s.MetricsFile); err != nil {
		return err
	}
	return paths.ValidatePath(s.TraceFile)
}

func isSupportedFormat(format string) bool {
	for _, f := range supportedFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// ListProfiles returns the available profile names in sorted order
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile returns the defaults overlaid with the named profile. An empty
// name returns the defaults unchanged.
func (c *Config) ApplyProfile(name string) (Settings, error) {
	if name == "" {
		return c.Defaults, nil
	}
	profile := c.GetProfile(name)
	if profile == nil {
		return Settings{}, fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(c.ListProfiles(), ", "))
	}
	return c.Defaults.WithProfile(profile), nil
}

// WithProfile returns a copy of s with the set fields of p applied
func (s Settings) WithProfile(p *Profile) Settings {
	if p == nil {
		return s
	}
	if p.Format != "" {
		s.Format = p.Format
	}
	if p.Checks != "" {
		s.Checks = p.Checks
	}
	if p.OutputDir != "" {
		s.OutputDir = p.OutputDir
	}
	if p.LabelColumn != "" {
		s.LabelColumn = p.LabelColumn
	}
	if p.ReplaceMode != "" {
		s.ReplaceMode = p.ReplaceMode
	}
	if p.Workers != nil {
		s.Workers = *p.Workers
	}
	if p.NoColor != nil {
		s.NoColor = *p.NoColor
	}
	if p.Quiet != nil {
		s.Quiet = *p.Quiet
	}
	if p.Debug != nil {
		s.Debug = *p.Debug
	}
	if p.RestrictToCWD != nil {
		s.RestrictToCWD = *p.RestrictToCWD
	}
	if p.MetricsFile != "" {
		s.MetricsFile = p.MetricsFile
	}
	if p.TraceFile != "" {
		s.TraceFile = p.TraceFile
	}
	return s
}
