package db

import (
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
)

// Prospect is a LinkedIn profile URL that sequences are generated for
type Prospect struct {
	ID        int64
	URL       string
	CreatedAt time.Time
}

// Prompt is a stored prompt template version
type Prompt struct {
	ID        int64
	Version   int
	Content   string
	CreatedAt time.Time
}

// TovConfig is a deduplicated tone configuration
type TovConfig struct {
	ID          int64
	Name        *string
	Tone        model.ToneVector
	Description *string
	IsPreset    bool
	CreatedAt   time.Time
}

// Sequence is one persisted version of a generated outreach sequence.
// ParentSequenceID is a lookup reference only.
type Sequence struct {
	ID               int64
	ProspectID       int64
	ProspectURL      string
	PromptID         int64
	TovConfigID      *int64
	Tone             model.ToneVector
	Version          int
	ParentSequenceID *int64
	CompanyContext   string
	SequenceLength   int
	Result           model.GenerationResult
	CreatedAt        time.Time
}

// NewSequence holds the fields needed to create a sequence row
type NewSequence struct {
	ProspectID       int64
	PromptID         int64
	TovConfigID      *int64
	Tone             model.ToneVector
	Version          int
	ParentSequenceID *int64
	CompanyContext   string
	SequenceLength   int
	Result           model.GenerationResult
}

// SequenceStats summarizes a sequence's refinement family
type SequenceStats struct {
	TotalRefinements int
	LatestVersion    int
	CreatedAt        time.Time
}
