// Package config provides configuration management for the board application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"finance-board/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Board       BoardConfig   `mapstructure:"board"`
	Storage     StorageConfig `mapstructure:"storage"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// BoardConfig holds deliberation engine configuration.
type BoardConfig struct {
	Model            string        `mapstructure:"model"`
	BatchSize        int           `mapstructure:"batch_size"`
	StageTimeout     time.Duration `mapstructure:"stage_timeout"`
	OverallDeadline  time.Duration `mapstructure:"overall_deadline"`
	MaxStageRetries  int           `mapstructure:"max_stage_retries"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	InsightEnabled   bool          `mapstructure:"insight_enabled"`
	PersonaOverrides string        `mapstructure:"persona_overrides"` // optional personas.toml path
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/finance-board"
	}
	return filepath.Join(home, ".config", "finance-board")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	return filepath.Join(DefaultConfigDir(), "board.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("board.model", "gpt-4o")
	v.SetDefault("board.batch_size", 3)
	v.SetDefault("board.stage_timeout", "45s")
	v.SetDefault("board.overall_deadline", "5m")
	v.SetDefault("board.max_stage_retries", 3)
	v.SetDefault("board.retry_delay", "500ms")
	v.SetDefault("board.insight_enabled", true)
	v.SetDefault("storage.db_path", DefaultDBPath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, write template and continue with defaults
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("BOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("BOARD_MODEL"); v != "" {
		cfg.Board.Model = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = DefaultDBPath()
	}
	if cfg.Board.Model == "" {
		cfg.Board.Model = "gpt-4o"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Board.BatchSize < 1 {
		return errors.Wrapf(errors.ErrConfigInvalid, "batch_size must be at least 1, got %d", c.Board.BatchSize)
	}
	if c.Board.MaxStageRetries < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "max_stage_retries must be non-negative")
	}
	if c.Board.StageTimeout <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "stage_timeout must be positive")
	}
	if c.Board.OverallDeadline <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "overall_deadline must be positive")
	}
	if c.Board.OverallDeadline < c.Board.StageTimeout {
		return errors.Wrap(errors.ErrConfigInvalid, "overall_deadline must not be shorter than stage_timeout")
	}
	return nil
}
