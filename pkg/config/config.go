// Package config loads runtime settings from an optional YAML file and
// AIFN_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nickdu2009/ai-functions/pkg/llm"
	"github.com/nickdu2009/ai-functions/pkg/tools"
)

// EnvPrefix is prepended to every environment override, e.g. AIFN_API_KEY.
const EnvPrefix = "AIFN"

// ErrMissingAPIKey is returned when no API key is configured. It wraps
// llm.ErrMissingAPIKey so callers can match either.
var ErrMissingAPIKey = fmt.Errorf("%s_API_KEY is not set: %w", EnvPrefix, llm.ErrMissingAPIKey)

// Config holds every setting the entry point needs.
type Config struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	StripTokens []string      `mapstructure:"strip_tokens"`
	LogLevel    string        `mapstructure:"log_level"`
}

// Load reads path (if non-empty) and applies environment overrides.
// The API key has no default; its absence is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", llm.DefaultBaseURL)
	v.SetDefault("model", llm.DefaultModel)
	v.SetDefault("timeout", llm.DefaultTimeout)
	v.SetDefault("strip_tokens", tools.DefaultNamingPolicy().StripTokens)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// LLM returns the client settings.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Model:   c.Model,
		Timeout: c.Timeout,
	}
}

// NamingPolicy returns the registry naming policy.
func (c *Config) NamingPolicy() tools.NamingPolicy {
	return tools.NamingPolicy{StripTokens: c.StripTokens}
}
