// Package config loads the application settings that sit around the
// pipeline registries: logging, the run ledger, notifications and paths.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rewired-gh/astrotrader/internal/settings"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Paths    PathsConfig    `mapstructure:"paths"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig holds the run ledger configuration
type StorageConfig struct {
	DBPath  string `mapstructure:"db_path"`
	MaxRuns int    `mapstructure:"max_runs"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// PathsConfig holds the file locations handed to downstream consumers
type PathsConfig struct {
	DefaultParameters string `mapstructure:"default_parameters"`
	DefaultConfig     string `mapstructure:"default_config"`
}

// Load reads configuration from an optional file and environment variables.
// An empty path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// ASTROTRADER_LOGGING_LEVEL overrides logging.level, and so on
	v.SetEnvPrefix("ASTROTRADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment.
// Variables already present in the environment are left untouched.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// EnvLookup returns a settings.Lookup reading unprefixed environment
// variables through viper. Empty values are reported as unset.
func EnvLookup() settings.Lookup {
	v := viper.New()
	bound := make(map[string]bool)
	return func(key string) (string, bool) {
		if !bound[key] {
			_ = v.BindEnv(key, key)
			bound[key] = true
		}
		if !v.IsSet(key) {
			return "", false
		}
		return v.GetString(key), true
	}
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("storage.db_path", "./data/astrotrader.db")
	v.SetDefault("storage.max_runs", 1000)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("paths.default_parameters", settings.DefaultParametersPath)
	v.SetDefault("paths.default_config", settings.DefaultConfigPath)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Storage.MaxRuns < 1 {
		return fmt.Errorf("storage.max_runs must be at least 1")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	if c.Telegram.MaxRetries < 0 {
		return fmt.Errorf("telegram.max_retries must not be negative")
	}

	if c.Paths.DefaultParameters == "" {
		return fmt.Errorf("paths.default_parameters is required")
	}
	if c.Paths.DefaultConfig == "" {
		return fmt.Errorf("paths.default_config is required")
	}

	return nil
}
