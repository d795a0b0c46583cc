package sequence

import (
	"context"
	"fmt"

	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
)

// TonePresets returns the stored presets, or the catalog when none have been seeded
func (s *Service) TonePresets(ctx context.Context) ([]config.TonePreset, error) {
	stored, err := s.db.ListTovPresets(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to list stored tone presets, using catalog")
		return s.presets.GetPresets(), nil
	}
	if len(stored) == 0 {
		return s.presets.GetPresets(), nil
	}

	out := make([]config.TonePreset, 0, len(stored))
	for _, cfg := range stored {
		p := config.TonePreset{ToneVector: cfg.Tone}
		if cfg.Name != nil {
			p.Name = *cfg.Name
		}
		if cfg.Description != nil {
			p.Description = *cfg.Description
		}
		out = append(out, p)
	}
	return out, nil
}

// SeedPresets upserts every catalog preset into storage and returns how many were written
func (s *Service) SeedPresets(ctx context.Context) (int, error) {
	presets := s.presets.GetPresets()
	for _, p := range presets {
		name, description := p.Name, p.Description
		_, err := s.db.UpsertTovPreset(ctx, db.TovConfig{
			Name:        &name,
			Tone:        p.ToneVector,
			Description: &description,
			IsPreset:    true,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to seed preset %q: %w", p.Name, err)
		}
	}
	logger.Log.WithField("count", len(presets)).Info("Seeded tone presets")
	return len(presets), nil
}
