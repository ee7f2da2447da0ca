// Package config loads the optional YAML settings file for the tlox command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"tlox/internal/runtime"
)

// EnvVar names the environment variable that points at a settings file.
const EnvVar = "TLOX_CONFIG"

// Config holds user settings. Keys missing from a file keep their defaults;
// keys present always apply, even when set to a zero value.
type Config struct {
	Prompt       string `yaml:"prompt"`
	HistoryFile  string `yaml:"history_file"`
	Color        bool   `yaml:"color"`
	LogLevel     string `yaml:"log_level"`
	MaxCallDepth int    `yaml:"max_call_depth"`

	// Path is the file the settings came from; empty when only defaults apply.
	Path string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt:       "> ",
		HistoryFile:  "~/.tlox_history",
		Color:        true,
		LogLevel:     "warn",
		MaxCallDepth: runtime.DefaultMaxCallDepth,
	}
}

// ValidationError aggregates settings validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString("validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Locate picks the settings file: the explicit path if given, else $TLOX_CONFIG,
// else $XDG_CONFIG_HOME/tlox/config.yml or ~/.config/tlox/config.yml when one exists.
// It returns "" when defaults should be used.
func Locate(explicit string, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if path := getenv(EnvVar); path != "" {
		return path
	}

	var candidates []string
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "tlox", "config.yml"))
	}
	if home := getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "tlox", "config.yml"))
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads settings from path on top of the defaults. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q is not a valid level", c.LogLevel))
	}
	if c.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be positive, got %d", c.MaxCallDepth))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}

// HistoryPath returns HistoryFile with a leading "~/" expanded. An empty result
// disables history.
func (c *Config) HistoryPath() string {
	if !strings.HasPrefix(c.HistoryFile, "~/") {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, c.HistoryFile[2:])
}
