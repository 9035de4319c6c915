package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Defaults applied by LoadConfig when the file leaves a value unset.
const (
	DefaultTimeoutSeconds      = 5
	MinTimeoutSeconds          = 1
	MaxTimeoutSeconds          = 30
	DefaultSpamThreshold       = 0.7
	DefaultSuspiciousThreshold = 0.4
	DefaultLogRetentionDays    = 30
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	API struct {
		Key            string `yaml:"key"`
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Checks struct {
		Enabled             bool    `yaml:"enabled"`
		Posts               bool    `yaml:"posts"`
		Messages            bool    `yaml:"messages"`
		Registrations       bool    `yaml:"registrations"`
		SpamThreshold       float64 `yaml:"spam_threshold"`
		SuspiciousThreshold float64 `yaml:"suspicious_threshold"`
		ActionBlocked       string  `yaml:"action_blocked"`
		ActionSuspicious    string  `yaml:"action_suspicious"`
		BypassGroupIDs      []int64 `yaml:"bypass_group_ids"`
	} `yaml:"checks"`
	Logs struct {
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"logs"`
	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifier"`
	Admin struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"`
		JWTSecret    string `yaml:"jwt_secret"`
	} `yaml:"admin"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file and applies
// defaults and bounds for the values the decision pipeline depends on.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.ApplyDefaults(logger)

	return config, nil
}

// ApplyDefaults fills unset values and clamps the API timeout into its
// supported range.
func (c *Config) ApplyDefaults(logger *zap.Logger) {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.API.TimeoutSeconds < MinTimeoutSeconds {
		c.API.TimeoutSeconds = MinTimeoutSeconds
	}
	if c.API.TimeoutSeconds > MaxTimeoutSeconds {
		c.API.TimeoutSeconds = MaxTimeoutSeconds
	}

	if c.Checks.SpamThreshold == 0 {
		c.Checks.SpamThreshold = DefaultSpamThreshold
	}
	if c.Checks.SuspiciousThreshold == 0 {
		c.Checks.SuspiciousThreshold = DefaultSuspiciousThreshold
	}
	if c.Checks.ActionBlocked == "" {
		c.Checks.ActionBlocked = "block"
	}
	if c.Checks.ActionSuspicious == "" {
		c.Checks.ActionSuspicious = "moderate"
	}

	if c.Logs.RetentionDays < 1 {
		c.Logs.RetentionDays = DefaultLogRetentionDays
	}

	// The blocked branch is evaluated first, so an inverted pair silently
	// degrades to the spam threshold dominating. Surface it at startup.
	if c.Checks.SuspiciousThreshold > c.Checks.SpamThreshold && logger != nil {
		logger.Warn("suspicious_threshold is above spam_threshold; spam_threshold takes precedence",
			zap.Float64("spam_threshold", c.Checks.SpamThreshold),
			zap.Float64("suspicious_threshold", c.Checks.SuspiciousThreshold))
	}
}

// IsEnabled reports whether spam checking is switched on and the API key is set.
func (c *Config) IsEnabled() bool {
	return c.Checks.Enabled && c.API.Key != ""
}
