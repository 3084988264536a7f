// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	CNN      CNNConfig      `mapstructure:"cnn"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CNNConfig holds the Fear & Greed API configuration
type CNNConfig struct {
	APIURL     string        `mapstructure:"api_url"`
	UserAgent  string        `mapstructure:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout"`
	WindowDays int           `mapstructure:"window_days"`
}

// TelegramConfig holds the bot credential and the destination chat for
// scheduled deliveries. Both are required.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// ScheduleConfig holds the two daily job specs and their timezone
type ScheduleConfig struct {
	Timezone       string `mapstructure:"timezone"`
	IndexSpec      string `mapstructure:"index_spec"`
	ComponentsSpec string `mapstructure:"components_spec"`
}

// ChartConfig holds chart output configuration
type ChartConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. A
// missing config file is fine as long as the environment supplies the
// required values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("FNGBOT")
	v.AutomaticEnv()

	// The original deployment configured the bot through these two
	// variables; keep honoring them.
	_ = v.BindEnv("telegram.bot_token", "FNGBOT_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "FNGBOT_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("cnn.api_url", "https://production.dataviz.cnn.io/index/fearandgreed/graphdata")
	v.SetDefault("cnn.user_agent", "")
	v.SetDefault("cnn.timeout", "30s")
	v.SetDefault("cnn.window_days", 365)

	v.SetDefault("schedule.timezone", "Asia/Taipei")
	v.SetDefault("schedule.index_spec", "0 8 * * *")
	v.SetDefault("schedule.components_spec", "1 8 * * *")

	v.SetDefault("chart.dir", ".")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.CNN.APIURL == "" {
		return fmt.Errorf("cnn.api_url is required")
	}
	if c.CNN.Timeout < 1*time.Second {
		return fmt.Errorf("cnn.timeout must be at least 1 second")
	}
	if c.CNN.WindowDays < 1 {
		return fmt.Errorf("cnn.window_days must be at least 1")
	}

	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}

	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone is invalid: %w", err)
	}
	if _, err := cron.ParseStandard(c.Schedule.IndexSpec); err != nil {
		return fmt.Errorf("schedule.index_spec is invalid: %w", err)
	}
	if _, err := cron.ParseStandard(c.Schedule.ComponentsSpec); err != nil {
		return fmt.Errorf("schedule.components_spec is invalid: %w", err)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
