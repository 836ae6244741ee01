package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rewired-gh/astrotrader/internal/config"
	"github.com/rewired-gh/astrotrader/internal/logger"
	"github.com/rewired-gh/astrotrader/internal/storage"
	"github.com/rewired-gh/astrotrader/internal/telegram"
)

type commandContext struct {
	configFlag  *string
	envFileFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, envFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		envFileFlag: envFileFlag,
	}
}

// ensureConfig loads the env file, then the application config, and
// initializes logging. It runs once per process.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadEnvFile(strings.TrimSpace(*c.envFileFlag)); err != nil {
			c.configErr = err
			return
		}
		path := strings.TrimSpace(*c.configFlag)
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("failed to load config: %w", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = fmt.Errorf("invalid configuration: %w", err)
			return
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		if path != "" {
			logger.Info("Configuration loaded from %s", path)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withStorage(fn func(*storage.Storage) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := storage.New(cfg.Storage.MaxRuns, cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()
	return fn(store)
}

// notifier returns nil when Telegram notifications are disabled.
func (c *commandContext) notifier() *telegram.Client {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Telegram.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil
	}
	client, err := telegram.NewClient(
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		cfg.Telegram.MaxRetries,
		cfg.Telegram.RetryDelayBase,
	)
	if err != nil {
		logger.Warn("Failed to initialize Telegram client: %v", err)
		return nil
	}
	return client
}
