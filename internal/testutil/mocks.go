package testutil

import (
	"context"
	"errors"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"
)

var errNotImplemented = errors.New("not implemented")

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	// Prospect mocks
	UpsertProspectFunc func(ctx context.Context, url string) (*db.Prospect, error)
	GetProspectFunc    func(ctx context.Context, id int64) (*db.Prospect, error)

	// Prompt mocks
	GetLatestPromptFunc func(ctx context.Context) (*db.Prompt, error)
	CreatePromptFunc    func(ctx context.Context, content string) (*db.Prompt, error)

	// Tone config mocks
	FindOrCreateTovConfigFunc func(ctx context.Context, tone model.ToneVector, name *string) (*db.TovConfig, error)
	UpsertTovPresetFunc       func(ctx context.Context, preset db.TovConfig) (*db.TovConfig, error)
	ListTovPresetsFunc        func(ctx context.Context) ([]db.TovConfig, error)

	// Sequence mocks
	CreateSequenceFunc            func(ctx context.Context, seq db.NewSequence) (*db.Sequence, error)
	GetSequenceFunc               func(ctx context.Context, id int64) (*db.Sequence, error)
	UpdateSequenceResultFunc      func(ctx context.Context, id int64, result model.GenerationResult) (*db.Sequence, error)
	DeleteSequenceFunc            func(ctx context.Context, id int64) error
	FindSequencesByIDsFunc        func(ctx context.Context, ids []int64) ([]db.Sequence, error)
	FindRefinementsByParentIDFunc func(ctx context.Context, parentID int64) ([]db.Sequence, error)
	FindSequencesByProspectIDFunc func(ctx context.Context, prospectID int64) ([]db.Sequence, error)
	GetSequenceStatsFunc          func(ctx context.Context, id int64) (*db.SequenceStats, error)
}

// Prospect methods
func (m *MockDatabase) UpsertProspect(ctx context.Context, url string) (*db.Prospect, error) {
	if m.UpsertProspectFunc != nil {
		return m.UpsertProspectFunc(ctx, url)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) GetProspect(ctx context.Context, id int64) (*db.Prospect, error) {
	if m.GetProspectFunc != nil {
		return m.GetProspectFunc(ctx, id)
	}
	return nil, errNotImplemented
}

// Prompt methods
func (m *MockDatabase) GetLatestPrompt(ctx context.Context) (*db.Prompt, error) {
	if m.GetLatestPromptFunc != nil {
		return m.GetLatestPromptFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) CreatePrompt(ctx context.Context, content string) (*db.Prompt, error) {
	if m.CreatePromptFunc != nil {
		return m.CreatePromptFunc(ctx, content)
	}
	return nil, errNotImplemented
}

// Tone config methods
func (m *MockDatabase) FindOrCreateTovConfig(ctx context.Context, tone model.ToneVector, name *string) (*db.TovConfig, error) {
	if m.FindOrCreateTovConfigFunc != nil {
		return m.FindOrCreateTovConfigFunc(ctx, tone, name)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) UpsertTovPreset(ctx context.Context, preset db.TovConfig) (*db.TovConfig, error) {
	if m.UpsertTovPresetFunc != nil {
		return m.UpsertTovPresetFunc(ctx, preset)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) ListTovPresets(ctx context.Context) ([]db.TovConfig, error) {
	if m.ListTovPresetsFunc != nil {
		return m.ListTovPresetsFunc(ctx)
	}
	return nil, errNotImplemented
}

// Sequence methods
func (m *MockDatabase) CreateSequence(ctx context.Context, seq db.NewSequence) (*db.Sequence, error) {
	if m.CreateSequenceFunc != nil {
		return m.CreateSequenceFunc(ctx, seq)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) GetSequence(ctx context.Context, id int64) (*db.Sequence, error) {
	if m.GetSequenceFunc != nil {
		return m.GetSequenceFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) UpdateSequenceResult(ctx context.Context, id int64, result model.GenerationResult) (*db.Sequence, error) {
	if m.UpdateSequenceResultFunc != nil {
		return m.UpdateSequenceResultFunc(ctx, id, result)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) DeleteSequence(ctx context.Context, id int64) error {
	if m.DeleteSequenceFunc != nil {
		return m.DeleteSequenceFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *MockDatabase) FindSequencesByIDs(ctx context.Context, ids []int64) ([]db.Sequence, error) {
	if m.FindSequencesByIDsFunc != nil {
		return m.FindSequencesByIDsFunc(ctx, ids)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) FindRefinementsByParentID(ctx context.Context, parentID int64) ([]db.Sequence, error) {
	if m.FindRefinementsByParentIDFunc != nil {
		return m.FindRefinementsByParentIDFunc(ctx, parentID)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) FindSequencesByProspectID(ctx context.Context, prospectID int64) ([]db.Sequence, error) {
	if m.FindSequencesByProspectIDFunc != nil {
		return m.FindSequencesByProspectIDFunc(ctx, prospectID)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) GetSequenceStats(ctx context.Context, id int64) (*db.SequenceStats, error) {
	if m.GetSequenceStatsFunc != nil {
		return m.GetSequenceStatsFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *MockDatabase) Close() error {
	return nil
}

// MockAdapter is a mock implementation of llm.Adapter for testing
type MockAdapter struct {
	ChatFunc               func(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.ChatResponse, error)
	GetAvailableModelsFunc func() []string
	CalculateCostFunc      func(usage llm.Usage, model string) float64
	TestConnectionFunc     func(ctx context.Context) bool

	Provider     string
	DefaultModel string
}

func (m *MockAdapter) Chat(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.ChatResponse, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, prompt, opts)
	}
	return nil, errNotImplemented
}

func (m *MockAdapter) GetAvailableModels() []string {
	if m.GetAvailableModelsFunc != nil {
		return m.GetAvailableModelsFunc()
	}
	return []string{m.GetDefaultModel()}
}

func (m *MockAdapter) GetDefaultModel() string {
	if m.DefaultModel != "" {
		return m.DefaultModel
	}
	return "default-model"
}

func (m *MockAdapter) CalculateCost(usage llm.Usage, model string) float64 {
	if m.CalculateCostFunc != nil {
		return m.CalculateCostFunc(usage, model)
	}
	return 0
}

func (m *MockAdapter) GetProviderName() string {
	if m.Provider != "" {
		return m.Provider
	}
	return "mock"
}

func (m *MockAdapter) TestConnection(ctx context.Context) bool {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return true
}

// StaticAdapterSource always hands out the same adapter
type StaticAdapterSource struct {
	Adapter llm.Adapter
}

func (s StaticAdapterSource) GetAdapter() llm.Adapter {
	return s.Adapter
}
