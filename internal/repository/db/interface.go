package db

import (
	"context"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
)

// Database defines the interface for all database operations
// This allows for easier testing through mocking and decouples the services from the specific database implementation
type Database interface {
	// Prospects
	UpsertProspect(ctx context.Context, url string) (*Prospect, error)
	GetProspect(ctx context.Context, id int64) (*Prospect, error)

	// Prompts
	GetLatestPrompt(ctx context.Context) (*Prompt, error)
	CreatePrompt(ctx context.Context, content string) (*Prompt, error)

	// Tone configs
	FindOrCreateTovConfig(ctx context.Context, tone model.ToneVector, name *string) (*TovConfig, error)
	UpsertTovPreset(ctx context.Context, preset TovConfig) (*TovConfig, error)
	ListTovPresets(ctx context.Context) ([]TovConfig, error)

	// Sequences
	CreateSequence(ctx context.Context, seq NewSequence) (*Sequence, error)
	GetSequence(ctx context.Context, id int64) (*Sequence, error)
	UpdateSequenceResult(ctx context.Context, id int64, result model.GenerationResult) (*Sequence, error)
	DeleteSequence(ctx context.Context, id int64) error
	FindSequencesByIDs(ctx context.Context, ids []int64) ([]Sequence, error)
	FindRefinementsByParentID(ctx context.Context, parentID int64) ([]Sequence, error)
	FindSequencesByProspectID(ctx context.Context, prospectID int64) ([]Sequence, error)
	GetSequenceStats(ctx context.Context, id int64) (*SequenceStats, error)

	Close() error
}
