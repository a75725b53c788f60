package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"reelsort/internal/config"
	"reelsort/internal/journal"
	"reelsort/internal/logging"
	"reelsort/internal/tmdb"
)

// commandContext shares lazily-loaded configuration between subcommands.
type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, verboseFlag: verboseFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
		return strings.TrimSpace(*c.configFlag)
	}
	return config.DefaultPath()
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.LoadOrDefault(c.configPath())
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if c.verboseFlag != nil && *c.verboseFlag {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

func (c *commandContext) newCatalog(cfg *config.Config) (*tmdb.Client, error) {
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		return nil, fmt.Errorf("create catalog client: %w", err)
	}
	return client, nil
}

func (c *commandContext) newJournal(cfg *config.Config, dryRun bool) (*journal.Journal, error) {
	jnl, err := journal.New(cfg.Journal.Path, dryRun)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return jnl, nil
}
