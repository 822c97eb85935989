// Package config provides configuration management for the workbench.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Profile     ProfileConfig  `mapstructure:"profile"`
	UI          UIConfig       `mapstructure:"ui"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// ProfileConfig holds the user's analysis preferences: the config blob
// {defaultTier, riskProfile, userName}.
type ProfileConfig struct {
	UserName    string `mapstructure:"user_name"`
	DefaultTier string `mapstructure:"default_tier"`
	RiskProfile string `mapstructure:"risk_profile"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Credentials holds API credentials.
type Credentials struct {
	LLM LLMCredentials `mapstructure:"llm"`
}

// LLMCredentials holds the inference-service connection settings. An empty
// endpoint uses the provider default.
type LLMCredentials struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/saham-workbench"
	}
	return filepath.Join(home, ".config", "saham-workbench")
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

	v.SetDefault("profile.default_tier", string(models.TierRetail))
	v.SetDefault("profile.risk_profile", string(models.RiskBalanced))
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.time_format", "15:04:05")
	v.SetDefault("logging.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("llm.model", "gpt-4o")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SAHAM_LLM_ENDPOINT"); v != "" {
		cfg.Credentials.LLM.Endpoint = v
	}
	if v := os.Getenv("SAHAM_LLM_API_KEY"); v != "" {
		cfg.Credentials.LLM.APIKey = v
	}
	if v := os.Getenv("SAHAM_LLM_MODEL"); v != "" {
		cfg.Credentials.LLM.Model = v
	}
	if v := os.Getenv("SAHAM_USER_NAME"); v != "" {
		cfg.Profile.UserName = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Profile.DefaultTier != "" && !models.CapitalTier(c.Profile.DefaultTier).Valid() {
		return fmt.Errorf("%w: default_tier %s (must be MICRO, RETAIL, HIGH_NET or INSTITUTIONAL)",
			apperrors.ErrConfigInvalid, c.Profile.DefaultTier)
	}
	if c.Profile.RiskProfile != "" && !models.RiskProfile(c.Profile.RiskProfile).Valid() {
		return fmt.Errorf("%w: risk_profile %s (must be CONSERVATIVE, BALANCED or AGGRESSIVE)",
			apperrors.ErrConfigInvalid, c.Profile.RiskProfile)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging level %s", apperrors.ErrConfigInvalid, c.Logging.Level)
	}
	return nil
}

// DefaultTier returns the configured default capital tier.
func (c *Config) DefaultTier() models.CapitalTier {
	return models.CapitalTier(c.Profile.DefaultTier)
}

// DefaultRiskProfile returns the configured default risk profile.
func (c *Config) DefaultRiskProfile() models.RiskProfile {
	return models.RiskProfile(c.Profile.RiskProfile)
}
