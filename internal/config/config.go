// Package config loads the outline2deck YAML configuration file.
//
// A config file supplies defaults for the export command and the HTTP
// server. Command-line flags and environment variables are layered on top
// by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-outline2deck/internal/dateutil"
	"github.com/alnah/go-outline2deck/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config directory.
const AppDir = "outline2deck"

// Field length limits.
const (
	MaxNameLength     = 100  // template name, author
	MaxPathLength     = 4096 // asset path, output directory
	MaxFooterLength   = 200  // footer label
	MaxFilenameLength = 100  // document base name
	MaxAddrLength     = 255  // listen address
	MaxOriginLength   = 2048 // one CORS origin
)

// Numeric limits.
const (
	MaxWorkers      = 64
	MaxBodyLimit    = 100 << 20 // 100 MB
	DefaultBodySize = 10 << 20  // 10 MB
)

// Defaults.
const (
	DefaultAddr    = ":5001"
	DefaultTimeout = "30s"
	DefaultFooter  = "Company Inc."
)

// Config holds all configuration for export and serving.
type Config struct {
	Templates TemplatesConfig `yaml:"templates"`
	Deck      DeckConfig      `yaml:"deck"`
	Output    OutputConfig    `yaml:"output"`
	Workers   int             `yaml:"workers"` // 0 = auto
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// TemplatesConfig defines template selection and loading.
type TemplatesConfig struct {
	Default   string `yaml:"default"`   // used for unknown ids (default: "light")
	AssetPath string `yaml:"assetPath"` // Empty = built-in templates only
}

// DeckConfig defines deck-level settings.
type DeckConfig struct {
	Template string       `yaml:"template"` // template id for export (empty = default)
	Format   string       `yaml:"format"`   // pptx, pdf, deck, json (default: pptx)
	Aspect   string       `yaml:"aspect"`   // 16:9, 4:3, 16:10 (default: 16:9)
	Filename string       `yaml:"filename"` // base name for server downloads
	Author   string       `yaml:"author"`
	Footer   FooterConfig `yaml:"footer"`
}

// FooterConfig defines the footer label shown on every slide.
type FooterConfig struct {
	Hidden bool   `yaml:"hidden"`
	Text   string `yaml:"text"` // may contain {date} or {date:FORMAT}
}

// Label returns the footer label, or "" when hidden.
func (f FooterConfig) Label() string {
	if f.Hidden {
		return ""
	}
	return f.Text
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
}

// ServerConfig defines the HTTP boundary.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"` // Empty = any origin
	MaxBodyBytes   int64    `yaml:"maxBodyBytes"`
	Timeout        string   `yaml:"timeout"` // Go duration, per request
}

// RequestTimeout returns the parsed per-request timeout.
// Validate guarantees it parses; a zero value falls back to DefaultTimeout.
func (s ServerConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// LogConfig defines server logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // json, console (default: json)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{Default: "light"},
		Deck: DeckConfig{
			Format: "pptx",
			Aspect: "16:9",
			Footer: FooterConfig{Text: DefaultFooter},
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultBodySize,
			Timeout:      DefaultTimeout,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for consumers
// who construct or modify Config manually (e.g., after env overrides).
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"templates.default", c.Templates.Default, MaxNameLength},
		{"templates.assetPath", c.Templates.AssetPath, MaxPathLength},
		{"deck.template", c.Deck.Template, MaxNameLength},
		{"deck.filename", c.Deck.Filename, MaxFilenameLength},
		{"deck.author", c.Deck.Author, MaxNameLength},
		{"deck.footer.text", c.Deck.Footer.Text, MaxFooterLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}
	for i, origin := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), origin, MaxOriginLength); err != nil {
			return err
		}
	}

	if err := oneOf("deck.format", c.Deck.Format, "", "pptx", "pdf", "deck", "xml", "json"); err != nil {
		return err
	}
	if err := oneOf("deck.aspect", c.Deck.Aspect, "", "16:9", "4:3", "16:10"); err != nil {
		return err
	}
	if err := oneOf("log.level", c.Log.Level, "", "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if err := oneOf("log.format", c.Log.Format, "", "json", "console"); err != nil {
		return err
	}
	if err := dateutil.Validate(c.Deck.Footer.Text); err != nil {
		return fmt.Errorf("%w: deck.footer.text: %v", ErrInvalidValue, err)
	}
	if strings.ContainsAny(c.Deck.Filename, `/\`) {
		return fmt.Errorf("%w: deck.filename: must not contain path separators", ErrInvalidValue)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	if c.Server.MaxBodyBytes < 0 || c.Server.MaxBodyBytes > MaxBodyLimit {
		return fmt.Errorf("%w: server.maxBodyBytes: must be between 0 and %d, got %d",
			ErrInvalidValue, MaxBodyLimit, c.Server.MaxBodyBytes)
	}
	if c.Server.Timeout != "" {
		d, err := time.ParseDuration(c.Server.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: server.timeout: %q is not a positive duration", ErrInvalidValue, c.Server.Timeout)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)",
		ErrInvalidValue, field, value, strings.Join(allowed[1:], ", "))
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/outline2deck/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
