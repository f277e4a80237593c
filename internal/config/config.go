package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full deployment configuration, loaded from environment
// variables with defaults in the tags. Scored selects the response mode for
// the whole deployment; it is never negotiated per message.
type Config struct {
	// HTTP
	Host         string        `env:"TUTORBOARD_HOST" envDefault:"0.0.0.0"`
	Port         int           `env:"TUTORBOARD_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"TUTORBOARD_HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"TUTORBOARD_HTTP_WRITE_TIMEOUT" envDefault:"30s"`

	// WebSocket
	PingInterval  time.Duration `env:"TUTORBOARD_WS_PING_INTERVAL" envDefault:"30s"`
	WSReadTimeout time.Duration `env:"TUTORBOARD_WS_READ_TIMEOUT" envDefault:"60s"`
	WSBufferSize  int           `env:"TUTORBOARD_WS_BUFFER_SIZE" envDefault:"100"`

	// User directory
	DirectoryPath string `env:"TUTORBOARD_DIRECTORY_PATH" envDefault:"./data/tutorboard.db"`

	// Completion service
	CompletionBaseURL   string        `env:"COMPLETION_BASE_URL" envDefault:"https://api.openai.com/v1"`
	CompletionAPIKey    string        `env:"COMPLETION_API_KEY"`
	CompletionModel     string        `env:"COMPLETION_MODEL" envDefault:"gpt-4o"`
	CompletionMaxTokens int           `env:"COMPLETION_MAX_TOKENS" envDefault:"500"`
	CompletionTimeout   time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"30s"`

	// Relay behavior
	Scored bool `env:"TUTORBOARD_SCORED_MODE" envDefault:"true"`

	// Shared with the login service for session token verification.
	SessionSecret string `env:"SESSION_SECRET"`
}

// Load parses and validates configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration can run.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be positive")
	}
	if c.PingInterval <= 0 || c.WSReadTimeout <= 0 {
		return fmt.Errorf("websocket timeouts must be positive")
	}
	if c.WSBufferSize <= 0 {
		return fmt.Errorf("websocket buffer size must be positive")
	}
	if c.DirectoryPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	if c.CompletionBaseURL == "" {
		return fmt.Errorf("completion base URL cannot be empty")
	}
	if c.CompletionModel == "" {
		return fmt.Errorf("completion model cannot be empty")
	}
	if c.CompletionMaxTokens <= 0 {
		return fmt.Errorf("completion max tokens must be positive")
	}
	if c.CompletionTimeout <= 0 {
		return fmt.Errorf("completion timeout must be positive")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session secret cannot be empty")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
