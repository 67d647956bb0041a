package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-outline2deck/internal/config"
)

// envPrefix namespaces the CLI's environment variables.
const envPrefix = "OUTLINE2DECK_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	// Deck
	ConfigPath      string // OUTLINE2DECK_CONFIG: config file name or path
	Template        string // OUTLINE2DECK_TEMPLATE: template id for export
	DefaultTemplate string // OUTLINE2DECK_DEFAULT_TEMPLATE: fallback template id
	Format          string // OUTLINE2DECK_FORMAT: output format
	Aspect          string // OUTLINE2DECK_ASPECT: aspect ratio
	Footer          string // OUTLINE2DECK_FOOTER: footer label
	Author          string // OUTLINE2DECK_AUTHOR: document author

	// I/O
	AssetPath string // OUTLINE2DECK_ASSET_PATH: custom template directory
	OutputDir string // OUTLINE2DECK_OUTPUT_DIR: default output directory
	Workers   int    // OUTLINE2DECK_WORKERS: parallel workers

	// Server
	Addr           string        // OUTLINE2DECK_ADDR, or PORT: listen address
	AllowedOrigins []string      // OUTLINE2DECK_ALLOWED_ORIGINS: comma-separated
	Timeout        time.Duration // OUTLINE2DECK_TIMEOUT: per-request timeout
	LogLevel       string        // OUTLINE2DECK_LOG_LEVEL
	LogFormat      string        // OUTLINE2DECK_LOG_FORMAT
}

// knownEnvVars lists valid OUTLINE2DECK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"OUTLINE2DECK_CONFIG":           true,
	"OUTLINE2DECK_TEMPLATE":         true,
	"OUTLINE2DECK_DEFAULT_TEMPLATE": true,
	"OUTLINE2DECK_FORMAT":           true,
	"OUTLINE2DECK_ASPECT":           true,
	"OUTLINE2DECK_FOOTER":           true,
	"OUTLINE2DECK_AUTHOR":           true,
	"OUTLINE2DECK_ASSET_PATH":       true,
	"OUTLINE2DECK_OUTPUT_DIR":       true,
	"OUTLINE2DECK_WORKERS":          true,
	"OUTLINE2DECK_ADDR":             true,
	"OUTLINE2DECK_ALLOWED_ORIGINS":  true,
	"OUTLINE2DECK_TIMEOUT":          true,
	"OUTLINE2DECK_LOG_LEVEL":        true,
	"OUTLINE2DECK_LOG_FORMAT":       true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:      os.Getenv("OUTLINE2DECK_CONFIG"),
		Template:        os.Getenv("OUTLINE2DECK_TEMPLATE"),
		DefaultTemplate: os.Getenv("OUTLINE2DECK_DEFAULT_TEMPLATE"),
		Format:          os.Getenv("OUTLINE2DECK_FORMAT"),
		Aspect:          os.Getenv("OUTLINE2DECK_ASPECT"),
		Footer:          os.Getenv("OUTLINE2DECK_FOOTER"),
		Author:          os.Getenv("OUTLINE2DECK_AUTHOR"),
		AssetPath:       os.Getenv("OUTLINE2DECK_ASSET_PATH"),
		OutputDir:       os.Getenv("OUTLINE2DECK_OUTPUT_DIR"),
		Addr:            os.Getenv("OUTLINE2DECK_ADDR"),
		LogLevel:        os.Getenv("OUTLINE2DECK_LOG_LEVEL"),
		LogFormat:       os.Getenv("OUTLINE2DECK_LOG_FORMAT"),
	}

	// PORT is the hosting platform convention; an explicit address wins.
	if cfg.Addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		}
	}

	if origins := os.Getenv("OUTLINE2DECK_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if timeout := os.Getenv("OUTLINE2DECK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("OUTLINE2DECK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized OUTLINE2DECK_* variables.
// Helps catch typos like OUTLINE2DECK_TEMPLATES instead of OUTLINE2DECK_TEMPLATE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values on top of the file config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Deck.Template, env.Template)
	setString(&cfg.Templates.Default, env.DefaultTemplate)
	setString(&cfg.Deck.Format, env.Format)
	setString(&cfg.Deck.Aspect, env.Aspect)
	setString(&cfg.Deck.Author, env.Author)
	if env.Footer != "" {
		cfg.Deck.Footer = config.FooterConfig{Text: env.Footer}
	}

	setString(&cfg.Templates.AssetPath, env.AssetPath)
	setString(&cfg.Output.DefaultDir, env.OutputDir)
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}

	setString(&cfg.Server.Addr, env.Addr)
	if len(env.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = env.AllowedOrigins
	}
	if env.Timeout > 0 {
		cfg.Server.Timeout = env.Timeout.String()
	}
	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
