// Package config provides configuration loading and structures.
package config

import (
	"time"
)

// Config is the application configuration root.
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Story         StoryConfig         `yaml:"story" mapstructure:"story"`
	Image         ImageConfig         `yaml:"image" mapstructure:"image"`
	Speech        SpeechConfig        `yaml:"speech" mapstructure:"speech"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// AppConfig holds basic application settings.
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig holds HTTP server settings.
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// LLMConfig holds text generation settings.
type LLMConfig struct {
	// DefaultProvider names the provider used when none is requested.
	DefaultProvider string `yaml:"default_provider" mapstructure:"default_provider"`
	// Providers maps provider name to its connection settings.
	Providers map[string]LLMProviderConfig `yaml:"providers" mapstructure:"providers"`
	// MaxRetries bounds narration retries on transient failures.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// RetryInitialInterval is the first backoff interval.
	RetryInitialInterval time.Duration `yaml:"retry_initial_interval" mapstructure:"retry_initial_interval"`
}

// LLMProviderConfig holds one chat model provider's settings.
type LLMProviderConfig struct {
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// StoryConfig holds turn orchestration settings.
type StoryConfig struct {
	// NarrationMaxTokens caps one narration completion.
	NarrationMaxTokens int `yaml:"narration_max_tokens" mapstructure:"narration_max_tokens"`
	// TitleMaxTokens caps the title generation call.
	TitleMaxTokens int `yaml:"title_max_tokens" mapstructure:"title_max_tokens"`
	// SummaryMaxTokens caps the summary generation call.
	SummaryMaxTokens int `yaml:"summary_max_tokens" mapstructure:"summary_max_tokens"`
}

// ImageConfig holds illustration generation settings.
type ImageConfig struct {
	// Provider selects the backend: "openai" or "placeholder".
	Provider string        `yaml:"provider" mapstructure:"provider"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Size     string        `yaml:"size" mapstructure:"size"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SpeechConfig holds speech synthesis settings.
type SpeechConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	VoiceID string        `yaml:"voice_id" mapstructure:"voice_id"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SecurityConfig holds security settings.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig holds admission gate settings.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// TurnsPerWindow is the bucket capacity per client key.
	TurnsPerWindow int `yaml:"turns_per_window" mapstructure:"turns_per_window"`
	// Window is the hard refill interval.
	Window time.Duration `yaml:"window" mapstructure:"window"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// ObservabilityConfig holds logging, tracing and metrics settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig holds tracing settings.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}
