// Package config handles ambient shell configuration: prompt string,
// history file defaults, log level/destination, and prompt colorization.
// It never overrides PATH, HOME, or HISTFILE — those come exclusively
// from the process environment (see internal/shellenv).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultPrompt      = "$ "
	DefaultHistorySize = 1000
	DefaultHistoryFile = ".poshell_history"
	DefaultLogLevel    = "info"
	DefaultLogFile     = "poshell.log"
)

// Valid color names for prompt/diagnostic output.
var validColors = map[string]bool{
	"black":          true,
	"red":            true,
	"green":          true,
	"yellow":         true,
	"blue":           true,
	"magenta":        true,
	"cyan":           true,
	"white":          true,
	"bright_black":   true,
	"bright_red":     true,
	"bright_green":   true,
	"bright_yellow":  true,
	"bright_blue":    true,
	"bright_magenta": true,
	"bright_cyan":    true,
	"bright_white":   true,
}

// Config represents the shell's ambient configuration.
type Config struct {
	Prompt  string        `yaml:"prompt"`
	History HistoryConfig `yaml:"history"`
	Colors  ColorScheme   `yaml:"colors"`
	Logging LoggingConfig `yaml:"logging"`
}

// HistoryConfig holds default history settings. The shell reads only
// MaxSize; File and IgnoreDuplicates are not consulted, and the history
// file path always comes from shellenv.HistFile (HISTFILE, else
// ~/.poshell_history).
type HistoryConfig struct {
	MaxSize          int    `yaml:"max_size"`
	File             string `yaml:"file"`
	IgnoreDuplicates bool   `yaml:"ignore_duplicates"`
}

// ColorScheme defines colors for prompt and REPL-level diagnostics.
// It never affects the bytes a command writes to stdout/stderr.
type ColorScheme struct {
	Enabled bool   `yaml:"enabled"`
	Prompt  string `yaml:"prompt"`
	Error   string `yaml:"error"`
	Warning string `yaml:"warning"`
	Success string `yaml:"success"`
}

// LoggingConfig controls the ambient structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Prompt: DefaultPrompt,
		History: HistoryConfig{
			MaxSize:          DefaultHistorySize,
			File:             filepath.Join(homeDir(), DefaultHistoryFile),
			IgnoreDuplicates: true,
		},
		Colors: ColorScheme{
			Enabled: true,
			Prompt:  "green",
			Error:   "red",
			Warning: "yellow",
			Success: "green",
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
			File:  filepath.Join(StateDir(), DefaultLogFile),
		},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "poshell")
	}
	return filepath.Join(homeDir(), ".config", "poshell")
}

// StateDir returns the directory used for runtime state such as log
// files.
func StateDir() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "poshell")
	}
	return filepath.Join(homeDir(), ".local", "state", "poshell")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	if path == "~" {
		return homeDir()
	}
	return path
}

// LoadFromFile loads configuration from a YAML file. Returns the default
// config, unchanged, if the file doesn't exist.
func LoadFromFile(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg = cfg.Merge(&userCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(ConfigPath())
}

// Merge merges another config into this one. Non-zero values from other
// override values in this config.
func (c *Config) Merge(other *Config) *Config {
	result := *c

	if other.Prompt != "" {
		result.Prompt = other.Prompt
	}

	if other.History.MaxSize != 0 {
		result.History.MaxSize = other.History.MaxSize
	}
	if other.History.File != "" {
		result.History.File = other.History.File
	}

	if other.Colors.Prompt != "" {
		result.Colors.Prompt = other.Colors.Prompt
	}
	if other.Colors.Error != "" {
		result.Colors.Error = other.Colors.Error
	}
	if other.Colors.Warning != "" {
		result.Colors.Warning = other.Colors.Warning
	}
	if other.Colors.Success != "" {
		result.Colors.Success = other.Colors.Success
	}

	if other.Logging.Level != "" {
		result.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		result.Logging.File = other.Logging.File
	}

	return &result
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.History.MaxSize < 0 {
		return errors.New("history.max_size cannot be negative")
	}

	colorFields := map[string]string{
		"prompt":  c.Colors.Prompt,
		"error":   c.Colors.Error,
		"warning": c.Colors.Warning,
		"success": c.Colors.Success,
	}
	for name, color := range colorFields {
		if color != "" && !IsValidColor(color) {
			return fmt.Errorf("invalid color %q for %s", color, name)
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}

	return nil
}

// IsValidColor checks if a color name is valid.
func IsValidColor(color string) bool {
	return validColors[color]
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	path = ExpandPath(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
