package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/api/handlers"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/memory"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/ai"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/prompt"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/sequence"
	"github.com/happychuks/linkedin-sequence-gen/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const modelReply = `{
  "sequence": [
    {"message": "Hi Jane, your post on platform teams was sharp.", "type": "opening", "confidence": 0.8},
    {"message": "Open to a 15 minute call next week?", "type": "call-to-action", "confidence": 0.6}
  ],
  "thinking_process": {"analysis": "a", "tone_of_voice": "b", "sequence_logic": "c"},
  "prospect_analysis": "Engineering lead",
  "metadata": {"model_used": "ignored"}
}`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	mockBuilder := func(cfg config.ProviderConfig) (llm.Adapter, error) {
		return &testutil.MockAdapter{
			DefaultModel: "mock-model",
			ChatFunc: func(ctx context.Context, p string, opts llm.ChatOptions) (*llm.ChatResponse, error) {
				return &llm.ChatResponse{
					Content: modelReply,
					Usage:   llm.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
					Model:   "mock-model",
				}, nil
			},
		}, nil
	}
	factory, err := llm.NewFactoryWithBuilders(config.AIConfig{Provider: config.ProviderOpenAI}, map[string]llm.Builder{
		config.ProviderOpenAI: mockBuilder,
		config.ProviderGroq:   mockBuilder,
	})
	require.NoError(t, err)

	generator, err := ai.NewService(factory, time.Second, ai.ComplexityMedium)
	require.NoError(t, err)

	store := memory.NewStore()
	svc := sequence.NewService(store, generator, prompt.NewService(store, nil), nil, config.GenerationConfig{
		PersistenceTimeout:    time.Second,
		PersistenceMaxRetries: 1,
	})

	return NewRouter(handlers.NewSequenceHandlers(svc), handlers.NewProviderHandlers(factory))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func generateBody(length int) map[string]any {
	return map[string]any{
		"prospect_url":    "https://www.linkedin.com/in/jane-smith",
		"tov_config":      map[string]float64{"formality": 0.8, "warmth": 0.5, "directness": 0.6},
		"company_context": "We build CI tooling",
		"sequence_length": length,
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodOptions, "/api/generate-sequence", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Empty(t, rec.Body.String())
}

func TestGenerateSequence(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/generate-sequence", generateBody(2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[handlers.GenerateResponse](t, rec)
	assert.Len(t, resp.Sequence, 2)
	assert.Equal(t, "Engineering lead", resp.ProspectAnalysis)
	assert.Equal(t, int64(1), resp.Metadata.SequenceID)
	assert.Equal(t, 1, resp.Metadata.PromptVersion)
	assert.Equal(t, "mock", resp.Metadata.Provider)
	assert.False(t, resp.Metadata.UsedFallback)
	assert.Equal(t, 30, resp.Metadata.TotalTokens)
}

func TestGenerateSequence_Validation(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{"missing url", func(b map[string]any) { delete(b, "prospect_url") }},
		{"bad url", func(b map[string]any) { b["prospect_url"] = "not a url" }},
		{"missing tone", func(b map[string]any) { delete(b, "tov_config") }},
		{"tone out of range", func(b map[string]any) {
			b["tov_config"] = map[string]float64{"formality": 1.5, "warmth": 0.5, "directness": 0.5}
		}},
		{"missing axis", func(b map[string]any) {
			b["tov_config"] = map[string]float64{"formality": 0.5, "warmth": 0.5}
		}},
		{"length too long", func(b map[string]any) { b["sequence_length"] = 5 }},
		{"length zero", func(b map[string]any) { b["sequence_length"] = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := generateBody(3)
			tt.mutate(body)

			rec := do(t, h, http.MethodPost, "/api/generate-sequence", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[handlers.ErrorResponse](t, rec)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGenerateSequence_MalformedBody(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-sequence", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefineAndCompare(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/generate-sequence", generateBody(2)).Code)

	rec := do(t, h, http.MethodPost, "/api/refine-sequence", map[string]any{
		"originalSequenceId": 1,
		"newTovConfig":       map[string]float64{"formality": 0.4, "warmth": 0.9, "directness": 0.6},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	refined := decode[handlers.RefineResponse](t, rec)
	assert.Equal(t, 2, refined.RefinedSequence.Version)
	require.NotNil(t, refined.RefinedSequence.ParentSequenceID)
	assert.Equal(t, int64(1), *refined.RefinedSequence.ParentSequenceID)
	assert.Equal(t, 1, refined.OriginalSequence.Version)
	assert.InDelta(t, -0.4, refined.Changes.Tov.Formality.Delta, 1e-9)
	assert.False(t, refined.Changes.SequenceLength.Changed)
	assert.Equal(t, 2, refined.Changes.SequenceLength.To)

	rec = do(t, h, http.MethodGet, "/api/refinements/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[handlers.SequencesResponse](t, rec)
	require.Len(t, list.Sequences, 1)
	assert.Equal(t, int64(2), list.Sequences[0].ID)

	for _, path := range []string{"/api/compare?ids=2,1", "/api/compare?originalId=1&refinedId=2"} {
		rec = do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		cmp := decode[handlers.CompareResponse](t, rec)
		require.Len(t, cmp.Versions, 2)
		assert.Equal(t, 1, cmp.Versions[0].Version)
		assert.Len(t, cmp.Deltas, 1)
	}

	rec = do(t, h, http.MethodGet, "/api/sequences/1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[handlers.StatsResponse](t, rec)
	assert.Equal(t, 1, stats.TotalRefinements)
	assert.Equal(t, 2, stats.LatestVersion)

	rec = do(t, h, http.MethodGet, "/api/history/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[handlers.SequencesResponse](t, rec).Sequences, 2)
}

func TestRefine_Errors(t *testing.T) {
	h := newTestRouter(t)
	tone := map[string]float64{"formality": 0.4, "warmth": 0.9, "directness": 0.6}

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"unknown sequence", map[string]any{"originalSequenceId": 99, "newTovConfig": tone}, http.StatusNotFound},
		{"zero id", map[string]any{"originalSequenceId": 0, "newTovConfig": tone}, http.StatusBadRequest},
		{"missing tone", map[string]any{"originalSequenceId": 1}, http.StatusBadRequest},
		{"length out of range", map[string]any{"originalSequenceId": 1, "newTovConfig": tone, "newSequenceLength": 9}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/refine-sequence", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCompare_Errors(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/compare", http.StatusBadRequest},
		{"/api/compare?ids=1,abc", http.StatusBadRequest},
		{"/api/compare?originalId=1", http.StatusBadRequest},
		{"/api/compare?ids=1,2", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, h, http.MethodGet, tt.path, nil).Code)
		})
	}
}

func TestSequenceLifecycle(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/generate-sequence", generateBody(2)).Code)

	rec := do(t, h, http.MethodGet, "/api/sequences/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	seq := decode[handlers.SequenceData](t, rec)
	assert.Equal(t, "https://www.linkedin.com/in/jane-smith", seq.ProspectURL)
	assert.Len(t, seq.Messages, 2)

	rec = do(t, h, http.MethodDelete, "/api/sequences/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[handlers.DeleteResponse](t, rec).Success)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/sequences/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/sequences/1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/sequences/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/history/42", nil).Code)
}

func TestEditMessages(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/generate-sequence", generateBody(2)).Code)

	body := map[string]any{"messages": []string{"Hi Jane Smith, thanks for connecting.", "Would you be open to a call next week?"}}
	rec := do(t, h, http.MethodPut, "/api/sequences/1/messages", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	seq := decode[handlers.SequenceData](t, rec)
	require.Len(t, seq.Messages, 2)
	assert.Equal(t, "Hi Jane Smith, thanks for connecting.", seq.Messages[0].Message)
	require.NotNil(t, seq.Messages[0].Confidence)

	rec = do(t, h, http.MethodGet, "/api/sequences/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Would you be open to a call next week?", decode[handlers.SequenceData](t, rec).Messages[1].Message)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"wrong count", "/api/sequences/1/messages", map[string]any{"messages": []string{"one"}}, http.StatusBadRequest},
		{"no messages", "/api/sequences/1/messages", map[string]any{}, http.StatusBadRequest},
		{"missing sequence", "/api/sequences/99/messages", body, http.StatusNotFound},
		{"bad id", "/api/sequences/abc/messages", body, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, h, http.MethodPut, tt.path, tt.body).Code)
		})
	}
}

func TestTonePresets(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/tov-presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[struct {
		Presets []config.TonePreset `json:"presets"`
	}](t, rec)
	assert.Len(t, resp.Presets, len(config.DefaultPresetsCatalog().GetPresets()))
}

func TestProvider(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/provider?test=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[handlers.ProviderResponse](t, rec)
	assert.Equal(t, "mock", info.Provider)
	assert.Equal(t, "mock-model", info.DefaultModel)
	require.NotNil(t, info.Connected)
	assert.True(t, *info.Connected)

	rec = do(t, h, http.MethodPost, "/api/provider/switch", map[string]string{"provider": "GROQ"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/provider/switch", map[string]string{"provider": "gemini"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
