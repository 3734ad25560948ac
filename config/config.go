// Package config loads TOML configuration with ${VAR} environment expansion,
// so secrets like API keys and SMTP credentials stay out of the file itself.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Provider names accepted by the assistant config.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the full assistant configuration.
type Config struct {
	Assistant AssistantConfig `toml:"assistant"`
	Model     ModelConfig     `toml:"model"`
	Session   SessionConfig   `toml:"session"`
	Retry     RetryConfig     `toml:"retry"`
	HTTP      HTTPConfig      `toml:"http"`
	SMTP      SMTPConfig      `toml:"smtp"`
	Logging   LoggingConfig   `toml:"logging"`
}

// AssistantConfig names the agency and bounds conversation context.
type AssistantConfig struct {
	CompanyName   string `toml:"company_name"`
	AgentName     string `toml:"agent_name"`
	WindowEntries int    `toml:"window_entries"`
}

// ModelConfig selects the LLM provider.
type ModelConfig struct {
	Provider string `toml:"provider"`
	Name     string `toml:"name"`
	APIKey   string `toml:"api_key"`
}

// SessionConfig sizes the in-memory session store.
type SessionConfig struct {
	ShardCount          int `toml:"shard_count"`
	MaxSessionsPerShard int `toml:"max_sessions_per_shard"`
}

// RetryConfig governs handler retries on transient upstream failures.
type RetryConfig struct {
	MaxAttempts int    `toml:"max_attempts"`
	BackoffBase string `toml:"backoff_base"`
}

// BackoffBaseDuration parses BackoffBase, defaulting to one second.
func (r RetryConfig) BackoffBaseDuration() time.Duration {
	d, err := time.ParseDuration(r.BackoffBase)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// HTTPConfig configures the API server and the WhatsApp webhook handshake.
type HTTPConfig struct {
	Addr        string `toml:"addr"`
	VerifyToken string `toml:"verify_token"`
}

// SMTPConfig configures outbound email. Empty username disables email tools.
type SMTPConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	SenderName string `toml:"sender_name"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Assistant: AssistantConfig{
			CompanyName:   "Premium Realty",
			AgentName:     "Sarah",
			WindowEntries: 10,
		},
		Model: ModelConfig{
			Provider: ProviderOpenAI,
		},
		Session: SessionConfig{
			ShardCount: 16,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BackoffBase: "1s",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads config from the given path, expanding ${VAR} references from the
// environment before parsing. Fields absent from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(expandEnvVars(string(data)), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("model.provider must be %q or %q", ProviderOpenAI, ProviderAnthropic)
	}
	if c.Assistant.WindowEntries < 0 {
		return fmt.Errorf("assistant.window_entries must not be negative")
	}
	if c.Session.ShardCount < 0 {
		return fmt.Errorf("session.shard_count must not be negative")
	}
	if c.Session.MaxSessionsPerShard < 0 {
		return fmt.Errorf("session.max_sessions_per_shard must not be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.BackoffBase != "" {
		if _, err := time.ParseDuration(c.Retry.BackoffBase); err != nil {
			return fmt.Errorf("retry.backoff_base is not a valid duration: %w", err)
		}
	}
	if c.SMTP.Username != "" && c.SMTP.Password == "" {
		return fmt.Errorf("smtp.password is required when smtp.username is set")
	}
	return nil
}

// EmailEnabled reports whether SMTP credentials were configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTP.Username != ""
}
