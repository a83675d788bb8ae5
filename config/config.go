// Package config loads engine configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries everything needed to assemble a TeamChat instance.
type Config struct {
	// Backend selects the assistant provider.
	Backend string `envconfig:"TEAMCHAT_BACKEND" default:"openai" validate:"oneof=openai anthropic mock"`
	// OpenAIAPIKey is required when Backend is openai.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	// AnthropicAPIKey is required when Backend is anthropic.
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	// Model overrides the backend's default model for participants that do
	// not pin one themselves.
	Model string `envconfig:"TEAMCHAT_MODEL"`

	// StoreDriver selects the conversation store.
	StoreDriver string `envconfig:"TEAMCHAT_STORE" default:"memory" validate:"oneof=memory badger sqlite"`
	// StorePath is the Badger directory or SQLite file. Empty means
	// in-memory for Badger.
	StorePath string `envconfig:"TEAMCHAT_STORE_PATH"`

	// RateLimit is the allowed turns per user per window.
	RateLimit int `envconfig:"TEAMCHAT_RATE_LIMIT" default:"10" validate:"min=1"`
	// RateWindow is the rolling rate-limit window.
	RateWindow time.Duration `envconfig:"TEAMCHAT_RATE_WINDOW" default:"1m"`

	// ExchangeTimeout bounds one exchange's wall-clock time.
	ExchangeTimeout time.Duration `envconfig:"TEAMCHAT_EXCHANGE_TIMEOUT" default:"20s"`
	// PollInterval is the delay between run status polls.
	PollInterval time.Duration `envconfig:"TEAMCHAT_POLL_INTERVAL" default:"1s"`
	// MaxPolls bounds poll attempts per run before timing out.
	MaxPolls int `envconfig:"TEAMCHAT_MAX_POLLS" default:"15" validate:"min=1"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"TEAMCHAT_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present but never overrides real env vars.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	if err := cfg.checkCredentials(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// checkCredentials enforces the key matching the selected backend. The
// oneof tags cannot express this cross-field rule.
func (c Config) checkCredentials() error {
	switch c.Backend {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic backend")
		}
	}
	return nil
}
