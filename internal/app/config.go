package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/happychuks/linkedin-sequence-gen/internal/api"
	"github.com/happychuks/linkedin-sequence-gen/internal/api/handlers"
	"github.com/happychuks/linkedin-sequence-gen/internal/cache"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/memory"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/postgres"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/ai"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/prompt"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/sequence"

	"github.com/redis/go-redis/v9"
)

// Config holds all application dependencies and configuration
type Config struct {
	// Database interface for data persistence
	DB db.Database
	// Centralized application configuration
	AppConfig *config.AppConfig

	Redis     *redis.Client
	Providers *llm.Factory
	Presets   *config.PresetsCatalog
	Sequences *sequence.Service
}

// NewConfig wires storage, cache, providers and services from configuration
func NewConfig(ctx context.Context, appConfig *config.AppConfig) (*Config, error) {
	c := &Config{AppConfig: appConfig}

	database, err := openStore(ctx, appConfig)
	if err != nil {
		return nil, err
	}
	c.DB = database

	presets, err := config.LoadPresetsCatalog(appConfig.Presets.Path)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load tone presets: %w", err)
	}
	c.Presets = presets

	var promptCache prompt.Cache
	if appConfig.Redis.URL != "" {
		client, err := cache.NewClient(ctx, appConfig.Redis)
		if err != nil {
			// The cache only saves a prompt lookup, so run without it
			logger.Log.WithError(err).Warn("Redis unavailable, prompt cache disabled")
		} else {
			c.Redis = client
			promptCache = cache.NewPromptCache(client, appConfig.Redis.PromptTTL)
		}
	}

	providers, err := llm.NewFactory(appConfig.AI)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Providers = providers

	complexity, err := ai.ParseComplexity(appConfig.Generation.Complexity)
	if err != nil {
		c.Close()
		return nil, err
	}
	generator, err := ai.NewService(providers, appConfig.Generation.AttemptTimeout, complexity)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Sequences = sequence.NewService(database, generator, prompt.NewService(database, promptCache), presets, appConfig.Generation)
	return c, nil
}

func openStore(ctx context.Context, appConfig *config.AppConfig) (db.Database, error) {
	backend, err := appConfig.StoreBackend()
	if err != nil {
		return nil, err
	}

	if backend == "memory" {
		logger.Log.Warn("Using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}

	database, err := postgres.NewPostgresDB(ctx, appConfig.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// Router builds the HTTP handler for the API
func (c *Config) Router() http.Handler {
	return api.NewRouter(
		handlers.NewSequenceHandlers(c.Sequences),
		handlers.NewProviderHandlers(c.Providers),
	)
}

// Close releases the database and cache connections
func (c *Config) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Log.WithError(err).Warn("Error closing Redis client")
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Log.WithError(err).Warn("Error closing database")
		}
	}
}
