// Package config loads the user settings that surround session persistence:
// where session files live, how chatty logging is, and which module map and
// filters the command line tool uses.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SessionFileExt is appended to the debugged executable's name.
const SessionFileExt = ".edb"

var configValidate = validator.New()

// Config represents the settings file (~/.edb/config.yaml).
type Config struct {
	// Directory holding one session file per debugged target
	SessionDir string `yaml:"session_dir" json:"session_dir" validate:"required"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`

	Modules ModulesConfig `yaml:"modules" json:"modules"`

	Filter FilterConfig `yaml:"filter" json:"filter"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity" validate:"omitempty,oneof=quiet normal verbose debug"`
}

// ModulesConfig points at a module map snapshot used when no live debugger
// is attached.
type ModulesConfig struct {
	Map string `yaml:"map" json:"map"`
}

// FilterConfig holds default module glob patterns for listings.
type FilterConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// DefaultPath returns ~/.edb/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".edb", "config.yaml"), nil
}

// DefaultConfig returns a configuration suitable for most use cases
func DefaultConfig() *Config {
	sessionDir := filepath.Join(".edb", "sessions")
	if homeDir, err := os.UserHomeDir(); err == nil {
		sessionDir = filepath.Join(homeDir, sessionDir)
	}
	return &Config{
		SessionDir: sessionDir,
		Logging:    LoggingConfig{Verbosity: "normal"},
	}
}

// Load reads a YAML settings file on top of DefaultConfig. A missing file is
// not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	c.Logging.Verbosity = strings.ToLower(c.Logging.Verbosity)

	return configValidate.Struct(c)
}

// SessionPath returns the session file used for a debugged executable.
func (c *Config) SessionPath(target string) string {
	return filepath.Join(c.SessionDir, filepath.Base(target)+SessionFileExt)
}
