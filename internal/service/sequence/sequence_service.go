package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/ai"

	"github.com/sirupsen/logrus"
)

const (
	MinSequenceLength = 1
	MaxSequenceLength = 4
)

// Generator builds prompts and runs them against the active provider
type Generator interface {
	BuildPrompt(prospectURL string, tone model.ToneVector, context string, length int) ai.Prompt
	Generate(ctx context.Context, prompt string, sequenceLength int, extractedName string) ai.Outcome
}

// PromptResolver returns the stored prompt row for a rendered prompt, saving a new version when it changed
type PromptResolver interface {
	Resolve(ctx context.Context, fresh string) (*db.Prompt, error)
}

// GenerateRequest contains the parameters for a new sequence
type GenerateRequest struct {
	ProspectURL    string
	Tone           model.ToneVector
	CompanyContext string
	SequenceLength int
}

// RefineRequest re-runs generation for an existing sequence with a new tone.
// A nil SequenceLength keeps the original length.
type RefineRequest struct {
	OriginalSequenceID int64
	Tone               model.ToneVector
	SequenceLength     *int
}

// GenerateResult is a persisted generation
type GenerateResult struct {
	Sequence         *db.Sequence
	PromptVersion    int
	GenerationTimeMs int64
	Outcome          ai.Outcome
}

// Changes describes how a refinement differs from its parent
type Changes struct {
	Tone           model.ToneDiff
	LengthChanged  bool
	PreviousLength int
	NewLength      int
}

// RefineResult is a persisted refinement with its parent
type RefineResult struct {
	Refined          *db.Sequence
	Original         *db.Sequence
	Changes          Changes
	PromptVersion    int
	GenerationTimeMs int64
	Outcome          ai.Outcome
}

// Service handles the business logic for sequence generation and versioning
type Service struct {
	db        db.Database
	generator Generator
	prompts   PromptResolver
	presets   *config.PresetsCatalog

	persistenceTimeout time.Duration
	maxRetries         int
	retryBaseDelay     time.Duration
}

// NewService creates a new sequence service
func NewService(database db.Database, generator Generator, prompts PromptResolver, presets *config.PresetsCatalog, cfg config.GenerationConfig) *Service {
	if presets == nil {
		presets = config.DefaultPresetsCatalog()
	}
	return &Service{
		db:                 database,
		generator:          generator,
		prompts:            prompts,
		presets:            presets,
		persistenceTimeout: cfg.PersistenceTimeout,
		maxRetries:         cfg.PersistenceMaxRetries,
		retryBaseDelay:     defaultRetryBaseDelay,
	}
}

// Generate creates version 1 of a sequence for a prospect
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if err := req.Tone.Validate(); err != nil {
		return nil, apperr.InvalidArgument("invalid tone: %v", err)
	}
	if err := validateLength(req.SequenceLength); err != nil {
		return nil, err
	}

	start := time.Now()

	prospect, err := s.db.UpsertProspect(ctx, req.ProspectURL)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert prospect: %w", err)
	}

	run, err := s.run(ctx, req.ProspectURL, req.Tone, req.CompanyContext, req.SequenceLength)
	if err != nil {
		return nil, err
	}

	seq, err := s.store(ctx, run, db.NewSequence{
		ProspectID:     prospect.ID,
		PromptID:       run.prompt.ID,
		Tone:           req.Tone,
		Version:        1,
		CompanyContext: req.CompanyContext,
		SequenceLength: req.SequenceLength,
		Result:         run.outcome.Result,
	})
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start).Milliseconds()
	logger.Log.WithFields(logrus.Fields{
		"sequence_id":   seq.ID,
		"prospect_id":   prospect.ID,
		"generation_id": run.outcome.GenerationID,
		"fallback":      run.outcome.UsedFallback,
		"duration_ms":   elapsed,
	}).Info("Sequence generated")

	return &GenerateResult{
		Sequence:         seq,
		PromptVersion:    run.prompt.Version,
		GenerationTimeMs: elapsed,
		Outcome:          run.outcome,
	}, nil
}

// Refine generates a new version of an existing sequence with a different tone
func (s *Service) Refine(ctx context.Context, req RefineRequest) (*RefineResult, error) {
	if req.OriginalSequenceID <= 0 {
		return nil, apperr.InvalidArgument("original sequence id must be positive, got %d", req.OriginalSequenceID)
	}
	if err := req.Tone.Validate(); err != nil {
		return nil, apperr.InvalidArgument("invalid tone: %v", err)
	}

	original, err := s.db.GetSequence(ctx, req.OriginalSequenceID)
	if err != nil {
		return nil, err
	}

	length := original.SequenceLength
	if req.SequenceLength != nil {
		length = *req.SequenceLength
	}
	if err := validateLength(length); err != nil {
		return nil, err
	}

	start := time.Now()

	run, err := s.run(ctx, original.ProspectURL, req.Tone, original.CompanyContext, length)
	if err != nil {
		return nil, err
	}

	parentID := original.ID
	refined, err := s.store(ctx, run, db.NewSequence{
		ProspectID:       original.ProspectID,
		PromptID:         run.prompt.ID,
		Tone:             req.Tone,
		Version:          original.Version + 1,
		ParentSequenceID: &parentID,
		CompanyContext:   original.CompanyContext,
		SequenceLength:   length,
		Result:           run.outcome.Result,
	})
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start).Milliseconds()
	logger.Log.WithFields(logrus.Fields{
		"sequence_id": refined.ID,
		"parent_id":   original.ID,
		"version":     refined.Version,
		"fallback":    run.outcome.UsedFallback,
	}).Info("Sequence refined")

	return &RefineResult{
		Refined:  refined,
		Original: original,
		Changes: Changes{
			Tone:           original.Tone.Diff(req.Tone),
			LengthChanged:  length != original.SequenceLength,
			PreviousLength: original.SequenceLength,
			NewLength:      length,
		},
		PromptVersion:    run.prompt.Version,
		GenerationTimeMs: elapsed,
		Outcome:          run.outcome,
	}, nil
}

type generationRun struct {
	prompt  *db.Prompt
	outcome ai.Outcome
}

// run builds the prompt, records its version and executes generation. Generation itself never fails.
func (s *Service) run(ctx context.Context, prospectURL string, tone model.ToneVector, companyContext string, length int) (*generationRun, error) {
	built := s.generator.BuildPrompt(prospectURL, tone, companyContext, length)

	prompt, err := s.prompts.Resolve(ctx, built.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve prompt: %w", err)
	}

	outcome := s.generator.Generate(ctx, built.Text, length, built.ExtractedName)
	return &generationRun{prompt: prompt, outcome: outcome}, nil
}

// store links the tone config and writes the sequence row, retrying transient failures.
// Once generation has produced a result, storage failures surface as *UnpersistedError.
func (s *Service) store(ctx context.Context, run *generationRun, seq db.NewSequence) (*db.Sequence, error) {
	var stored *db.Sequence
	err := s.withRetry(ctx, "persist sequence", func(ctx context.Context) error {
		if seq.TovConfigID == nil {
			tov, err := s.db.FindOrCreateTovConfig(ctx, seq.Tone, nil)
			if err != nil {
				return err
			}
			seq.TovConfigID = &tov.ID
		}

		created, err := s.db.CreateSequence(ctx, seq)
		if err != nil {
			return err
		}
		stored = created
		return nil
	})
	if err != nil {
		logger.Log.WithError(err).WithField("generation_id", run.outcome.GenerationID).Error("Failed to persist generated sequence")
		return nil, &UnpersistedError{Result: run.outcome.Result.Clone(), Err: err}
	}
	return stored, nil
}

func validateLength(length int) error {
	if length < MinSequenceLength || length > MaxSequenceLength {
		return apperr.InvalidArgument("sequence length must be between %d and %d, got %d", MinSequenceLength, MaxSequenceLength, length)
	}
	return nil
}

func validateID(name string, id int64) error {
	if id <= 0 {
		return apperr.InvalidArgument("%s must be a positive integer, got %d", name, id)
	}
	return nil
}
