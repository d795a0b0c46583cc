package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/prompt"

	"github.com/redis/go-redis/v9"
)

const activePromptKey = "prompt:active"

// Ensure PromptCache implements prompt.Cache
var _ prompt.Cache = (*PromptCache)(nil)

// PromptCache keeps the active prompt version in Redis
type PromptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient connects to Redis and pings it
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.DialTimeout = cfg.DialTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewPromptCache wraps an existing client
func NewPromptCache(client *redis.Client, ttl time.Duration) *PromptCache {
	return &PromptCache{client: client, ttl: ttl}
}

// Get returns the cached active prompt, or nil on a miss
func (c *PromptCache) Get(ctx context.Context) (*db.Prompt, error) {
	data, err := c.client.Get(ctx, activePromptKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var prompt db.Prompt
	if err := json.Unmarshal(data, &prompt); err != nil {
		return nil, fmt.Errorf("error decoding cached prompt: %w", err)
	}
	return &prompt, nil
}

// Set stores the active prompt
func (c *PromptCache) Set(ctx context.Context, prompt *db.Prompt) error {
	data, err := json.Marshal(prompt)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activePromptKey, data, c.ttl).Err()
}

// Invalidate drops the cached prompt
func (c *PromptCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activePromptKey).Err()
}
