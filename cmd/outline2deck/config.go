package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	outline2deck "github.com/alnah/go-outline2deck"
	"github.com/alnah/go-outline2deck/internal/config"
	"github.com/alnah/go-outline2deck/internal/fileutil"
	"github.com/alnah/go-outline2deck/internal/hints"
)

// loadConfig resolves the configuration for a command: the named file (flag,
// then OUTLINE2DECK_CONFIG), or defaults, with environment overrides applied.
func loadConfig(flagName string) (*config.Config, error) {
	env := loadEnvConfig()

	name := flagName
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// configSearchPaths lists where a config name is looked up, for hints.
func configSearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return []string{name}
	}
	paths := []string{name + ".yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, config.AppDir, name+".yaml"))
	}
	return paths
}

// mergeDeckFlags applies deck flags over cfg (CLI wins).
func mergeDeckFlags(f *deckFlags, cfg *config.Config) {
	setString(&cfg.Deck.Template, f.template)
	setString(&cfg.Deck.Format, f.format)
	setString(&cfg.Deck.Aspect, f.aspect)
	setString(&cfg.Deck.Author, f.author)
	if f.footer != "" {
		cfg.Deck.Footer = config.FooterConfig{Text: f.footer}
	}
	if f.noFooter {
		cfg.Deck.Footer.Hidden = true
	}
}

// newRenderer builds a renderer from the resolved configuration.
func newRenderer(cfg *config.Config, env *Environment) (*outline2deck.Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := []outline2deck.Option{
		outline2deck.WithFooter(cfg.Deck.Footer.Label()),
		outline2deck.WithAuthor(cfg.Deck.Author),
		outline2deck.WithFilename(cfg.Deck.Filename),
		outline2deck.WithClock(env.Now),
	}
	if cfg.Templates.Default != "" {
		opts = append(opts, outline2deck.WithDefaultTemplate(cfg.Templates.Default))
	}
	if cfg.Templates.AssetPath != "" {
		opts = append(opts, outline2deck.WithAssetPath(cfg.Templates.AssetPath))
	}
	if cfg.Deck.Aspect != "" {
		opts = append(opts, outline2deck.WithAspect(cfg.Deck.Aspect))
	}

	r, err := outline2deck.NewRenderer(opts...)
	if err != nil {
		if errors.Is(err, outline2deck.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForTemplates(builtinTemplates()))
		}
		return nil, err
	}
	return r, nil
}

// builtinTemplates lists the embedded template ids for hints.
func builtinTemplates() []string {
	r, err := outline2deck.NewRenderer()
	if err != nil {
		return nil
	}
	return r.Templates()
}
