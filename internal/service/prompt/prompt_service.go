package prompt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Cache is the optional fast path in front of the prompts table
type Cache interface {
	Get(ctx context.Context) (*db.Prompt, error)
	Set(ctx context.Context, prompt *db.Prompt) error
	Invalidate(ctx context.Context) error
}

// Store is the subset of db.Database the prompt service needs
type Store interface {
	GetLatestPrompt(ctx context.Context) (*db.Prompt, error)
	CreatePrompt(ctx context.Context, content string) (*db.Prompt, error)
}

const activeReadTimeout = 10 * time.Second

// Service tracks versioned prompt templates
type Service struct {
	store Store
	cache Cache
	group singleflight.Group
	// saves counts SavePrompt calls so a slower read never caches an older version
	saves atomic.Int64
}

// NewService creates a prompt service. cache may be nil.
func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

// GetActivePrompt returns the highest prompt version, or nil if none exists.
// Concurrent misses share a single database read that outlives any one caller's cancellation.
func (s *Service) GetActivePrompt(ctx context.Context) (*db.Prompt, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("Prompt cache read failed, falling back to database")
		} else if cached != nil {
			return cached, nil
		}
	}

	ch := s.group.DoChan("active", func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activeReadTimeout)
		defer cancel()

		savesBefore := s.saves.Load()
		prompt, err := s.store.GetLatestPrompt(readCtx)
		if err != nil {
			return nil, err
		}
		if prompt != nil {
			s.fillCache(readCtx, prompt, savesBefore)
		}
		return prompt, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load active prompt: %w", res.Err)
		}
		prompt, _ := res.Val.(*db.Prompt)
		return prompt, nil
	}
}

// SavePrompt inserts a new version and refreshes the cache
func (s *Service) SavePrompt(ctx context.Context, content string) (*db.Prompt, error) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Log.WithError(err).Warn("Failed to invalidate cached prompt")
		}
	}

	prompt, err := s.store.CreatePrompt(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to save prompt: %w", err)
	}
	s.saves.Add(1)

	logger.Log.WithField("version", prompt.Version).Info("Saved new prompt version")
	s.storeInCache(ctx, prompt)
	return prompt, nil
}

// Resolve returns the active prompt if its content is byte-identical to fresh,
// otherwise saves fresh as a new version.
func (s *Service) Resolve(ctx context.Context, fresh string) (*db.Prompt, error) {
	active, err := s.GetActivePrompt(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil && active.Content == fresh {
		return active, nil
	}

	logger.Log.WithFields(logrus.Fields{
		"previous_version": versionOf(active),
	}).Debug("Prompt changed, saving new version")
	return s.SavePrompt(ctx, fresh)
}

// fillCache caches a prompt read from the database unless a newer version
// was saved meanwhile, in this process or another one
func (s *Service) fillCache(ctx context.Context, prompt *db.Prompt, savesBefore int64) {
	if s.cache == nil || s.saves.Load() != savesBefore {
		return
	}
	if cached, err := s.cache.Get(ctx); err == nil && cached != nil && cached.Version >= prompt.Version {
		return
	}
	s.storeInCache(ctx, prompt)
}

func (s *Service) storeInCache(ctx context.Context, prompt *db.Prompt) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, prompt); err != nil {
		logger.Log.WithError(err).Warn("Failed to cache prompt")
	}
}

func versionOf(p *db.Prompt) int {
	if p == nil {
		return 0
	}
	return p.Version
}
