package ai

import (
	"context"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxAttempts is the optimal-model attempt plus one retry on the fallback model
const maxAttempts = 2

// AdapterSource yields the active adapter
type AdapterSource interface {
	GetAdapter() llm.Adapter
}

// Attempt records one provider call made for a generation
type Attempt struct {
	Number     int    `json:"attempt"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Status     string `json:"status"`
	ErrorKind  string `json:"errorKind,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// Outcome is the result of a generation run. It always carries a well-formed result.
type Outcome struct {
	GenerationID string
	Result       model.GenerationResult
	Provider     string
	UsedFallback bool
	Attempts     []Attempt
}

// Service drives prompt execution against the active provider with one retry and a static fallback
type Service struct {
	adapters       AdapterSource
	processor      *ResponseProcessor
	attemptTimeout time.Duration
	complexity     Complexity
}

// NewService creates the generation service
func NewService(adapters AdapterSource, attemptTimeout time.Duration, complexity Complexity) (*Service, error) {
	processor, err := NewResponseProcessor()
	if err != nil {
		return nil, err
	}
	if complexity == "" {
		complexity = ComplexityMedium
	}
	return &Service{
		adapters:       adapters,
		processor:      processor,
		attemptTimeout: attemptTimeout,
		complexity:     complexity,
	}, nil
}

// BuildPrompt renders the instruction prompt for a prospect
func (s *Service) BuildPrompt(prospectURL string, tone model.ToneVector, context string, length int) Prompt {
	return BuildPrompt(prospectURL, tone, context, length)
}

// GetAdapter returns the active adapter
func (s *Service) GetAdapter() llm.Adapter {
	return s.adapters.GetAdapter()
}

// Generate runs at most two attempts and falls back to DefaultSequence when both fail.
// Failures never propagate. A non-empty extractedName triggers rescoring of a successful result.
func (s *Service) Generate(ctx context.Context, prompt string, sequenceLength int, extractedName string) Outcome {
	// One snapshot per request so a provider switch mid-flight cannot mix adapters
	adapter := s.adapters.GetAdapter()
	outcome := Outcome{
		GenerationID: uuid.New().String(),
		Provider:     adapter.GetProviderName(),
	}

	log := logger.Log.WithFields(logrus.Fields{
		"generation_id": outcome.GenerationID,
		"provider":      outcome.Provider,
	})

	models := [maxAttempts]string{
		SelectOptimalModel(sequenceLength, s.complexity, adapter),
		RetryModel(adapter),
	}

	for i, modelName := range models {
		attempt := Attempt{Number: i + 1, Provider: outcome.Provider, Model: modelName}
		start := time.Now()

		result, err := s.attempt(ctx, adapter, prompt, modelName)
		attempt.DurationMs = time.Since(start).Milliseconds()

		if err != nil {
			attempt.Status = "failed"
			attempt.ErrorKind = string(apperr.KindOf(err))
			attempt.Error = err.Error()
			outcome.Attempts = append(outcome.Attempts, attempt)

			log.WithFields(logrus.Fields{
				"attempt": attempt.Number,
				"model":   modelName,
				"kind":    attempt.ErrorKind,
			}).WithError(err).Warn("AI generation attempt failed")
			continue
		}

		attempt.Status = "success"
		outcome.Attempts = append(outcome.Attempts, attempt)

		if extractedName != "" {
			result.Sequence = OptimizeScores(result.Sequence, extractedName)
		}
		outcome.Result = *result

		log.WithFields(logrus.Fields{
			"attempt":     attempt.Number,
			"model":       result.Metadata.ModelUsed,
			"cost":        result.Metadata.Cost,
			"tokens":      result.Metadata.TotalTokens,
			"duration_ms": attempt.DurationMs,
		}).Info("AI generation succeeded")
		return outcome
	}

	log.Error("All AI retries failed, using fallback")
	outcome.Result = DefaultSequence()
	outcome.UsedFallback = true
	return outcome
}

func (s *Service) attempt(ctx context.Context, adapter llm.Adapter, prompt, modelName string) (*model.GenerationResult, error) {
	if s.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()
	}

	resp, err := adapter.Chat(ctx, prompt, llm.ChatOptions{Model: modelName})
	if err != nil {
		return nil, err
	}
	return s.processor.Process(resp, adapter.CalculateCost)
}
