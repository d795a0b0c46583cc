package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// DefaultSystemPrompt is the role context every adapter sends ahead of the user prompt
const DefaultSystemPrompt = "You are an experienced sales development representative with very high attention to detail. " +
	"Generate personalized, natural messages without using ANY placeholders like [Company Name] or [Your Company]. " +
	"Use specific details from the context provided. Your goal is to generate high-quality LinkedIn outreach sequences " +
	"based on prospect data and tone of voice guidelines."

// Supported provider names
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"

	DefaultProvider = ProviderOpenAI
)

// SupportedProviders lists every provider the adapter factory can build
var SupportedProviders = []string{ProviderOpenAI, ProviderAnthropic, ProviderGroq, ProviderOpenRouter}

// AppConfig holds all application configuration
type AppConfig struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	AI         AIConfig
	Generation GenerationConfig
	Presets    PresetsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `default:"8080"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host           string `default:"postgres"`
	Port           string `default:"5432"`
	User           string `default:"postgres"`
	Password       string `default:"postgres"`
	Name           string `default:"sequences"`
	SSLMode        string `envconfig:"SSLMODE" default:"disable"`
	MigrationsPath string `split_words:"true" default:"file://migrations"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Backend string `default:"postgres"`
}

// RedisConfig holds the prompt cache connection. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PromptTTL    time.Duration `split_words:"true" default:"1h"`
	ReadTimeout  time.Duration `split_words:"true" default:"3s"`
	WriteTimeout time.Duration `split_words:"true" default:"3s"`
	DialTimeout  time.Duration `split_words:"true" default:"5s"`
}

// ProviderConfig holds the settings for one LLM vendor
type ProviderConfig struct {
	APIKey       string        `envconfig:"API_KEY"`
	Model        string        `envconfig:"MODEL"`
	Temperature  float64       `envconfig:"TEMPERATURE" default:"0.7"`
	MaxTokens    int           `envconfig:"MAX_TOKENS" default:"2000"`
	SystemPrompt string        `envconfig:"SYSTEM_PROMPT"`
	BaseURL      string        `envconfig:"BASE_URL"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"90s"`
}

// AIConfig holds provider selection and per-provider settings
type AIConfig struct {
	Provider   string         `envconfig:"AI_PROVIDER" default:"openai"`
	OpenAI     ProviderConfig `envconfig:"OPENAI"`
	Anthropic  ProviderConfig `envconfig:"ANTHROPIC"`
	Groq       ProviderConfig `envconfig:"GROQ"`
	OpenRouter ProviderConfig `envconfig:"OPENROUTER"`
}

// GenerationConfig bounds the generation and persistence steps
type GenerationConfig struct {
	AttemptTimeout        time.Duration `envconfig:"GENERATION_ATTEMPT_TIMEOUT" default:"60s"`
	Complexity            string        `envconfig:"GENERATION_COMPLEXITY" default:"medium"`
	PersistenceTimeout    time.Duration `envconfig:"PERSISTENCE_TIMEOUT" default:"10s"`
	PersistenceMaxRetries int           `envconfig:"PERSISTENCE_MAX_RETRIES" default:"3"`
}

// PresetsConfig locates the tone preset catalog
type PresetsConfig struct {
	Path string `envconfig:"TONE_PRESETS_PATH" default:"config/tone_presets.yaml"`
}

// LoadConfig loads and validates application configuration from environment.
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file loaded, using process environment")
	}
	return loadFromEnv()
}

func loadFromEnv() (*AppConfig, error) {
	config := &AppConfig{}

	sections := []struct {
		prefix string
		target any
	}{
		{"server", &config.Server},
		{"db", &config.Database},
		{"redis", &config.Redis},
		{"", &config.AI},
		{"", &config.Generation},
		{"", &config.Presets},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", sectionName(s.prefix), err)
		}
	}

	config.AI.applyDefaults()

	if err := config.Generation.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// StoreBackend returns the configured persistence backend
func (c *AppConfig) StoreBackend() (string, error) {
	var store StoreConfig
	if err := envconfig.Process("store", &store); err != nil {
		return "", fmt.Errorf("failed to load store config: %w", err)
	}
	backend := strings.ToLower(store.Backend)
	if backend != "postgres" && backend != "memory" {
		return "", fmt.Errorf("STORE_BACKEND must be postgres or memory, got %q", store.Backend)
	}
	return backend, nil
}

func sectionName(prefix string) string {
	if prefix == "" {
		return "application"
	}
	return prefix
}

// applyDefaults fills per-provider defaults that are too long or provider specific for tags
func (c *AIConfig) applyDefaults() {
	defaults := []struct {
		cfg     *ProviderConfig
		model   string
		baseURL string
	}{
		{&c.OpenAI, "gpt-3.5-turbo", "https://api.openai.com/v1/"},
		{&c.Anthropic, "claude-3-sonnet-20240229", "https://api.anthropic.com/v1"},
		{&c.Groq, "llama-3.3-70b-versatile", "https://api.groq.com/openai/v1/"},
		{&c.OpenRouter, "meta-llama/llama-3.3-70b-instruct", "https://openrouter.ai/api/v1"},
	}
	for _, d := range defaults {
		if d.cfg.Model == "" {
			d.cfg.Model = d.model
		}
		if d.cfg.BaseURL == "" {
			d.cfg.BaseURL = d.baseURL
		}
		if strings.TrimSpace(d.cfg.SystemPrompt) == "" {
			d.cfg.SystemPrompt = DefaultSystemPrompt
		}
	}

	if c.OpenAI.APIKey == "" && strings.EqualFold(c.Provider, ProviderOpenAI) {
		logger.Log.Warn("OPENAI_API_KEY environment variable not set")
	}
}

// ProviderSettings returns the settings block for a provider name
func (c *AIConfig) ProviderSettings(name string) (ProviderConfig, bool) {
	switch strings.ToLower(name) {
	case ProviderOpenAI:
		return c.OpenAI, true
	case ProviderAnthropic:
		return c.Anthropic, true
	case ProviderGroq:
		return c.Groq, true
	case ProviderOpenRouter:
		return c.OpenRouter, true
	default:
		return ProviderConfig{}, false
	}
}

func (g *GenerationConfig) validate() error {
	switch g.Complexity {
	case "simple", "medium", "complex":
	default:
		logger.Log.WithFields(logrus.Fields{"value": g.Complexity, "default": "medium"}).Warn("Invalid GENERATION_COMPLEXITY, using default")
		g.Complexity = "medium"
	}
	if g.AttemptTimeout <= 0 {
		return fmt.Errorf("GENERATION_ATTEMPT_TIMEOUT must be positive, got %s", g.AttemptTimeout)
	}
	if g.PersistenceMaxRetries < 1 {
		return fmt.Errorf("PERSISTENCE_MAX_RETRIES must be at least 1, got %d", g.PersistenceMaxRetries)
	}
	return nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
