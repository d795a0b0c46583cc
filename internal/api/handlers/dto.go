package handlers

import (
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/ai"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/sequence"
)

// Request/Response types

type ToneConfig struct {
	Formality  *float64 `json:"formality"`
	Warmth     *float64 `json:"warmth"`
	Directness *float64 `json:"directness"`
}

func (t *ToneConfig) vector() model.ToneVector {
	return model.ToneVector{Formality: *t.Formality, Warmth: *t.Warmth, Directness: *t.Directness}
}

type GenerateRequest struct {
	ProspectURL    string      `json:"prospect_url"`
	TovConfig      *ToneConfig `json:"tov_config"`
	CompanyContext string      `json:"company_context"`
	SequenceLength int         `json:"sequence_length"`
}

type RefineRequest struct {
	OriginalSequenceID int64       `json:"originalSequenceId"`
	NewTovConfig       *ToneConfig `json:"newTovConfig"`
	NewSequenceLength  *int        `json:"newSequenceLength,omitempty"`
}

type EditMessagesRequest struct {
	Messages []string `json:"messages"`
}

type SwitchProviderRequest struct {
	Provider string `json:"provider"`
}

type GenerateMetadata struct {
	model.Metadata
	SequenceID       int64        `json:"sequence_id"`
	ProspectID       int64        `json:"prospect_id"`
	PromptVersion    int          `json:"prompt_version"`
	GenerationTimeMs int64        `json:"generation_time_ms"`
	GenerationID     string       `json:"generation_id"`
	Provider         string       `json:"provider"`
	UsedFallback     bool         `json:"used_fallback"`
	Attempts         []ai.Attempt `json:"attempts,omitempty"`
}

type GenerateResponse struct {
	Sequence         []model.GeneratedMessage `json:"sequence"`
	ThinkingProcess  model.ThinkingProcess    `json:"thinking_process"`
	ProspectAnalysis string                   `json:"prospect_analysis"`
	Metadata         GenerateMetadata         `json:"metadata"`
}

type SequenceData struct {
	ID               int64                    `json:"id"`
	ProspectID       int64                    `json:"prospectId"`
	ProspectURL      string                   `json:"prospectUrl"`
	PromptID         int64                    `json:"promptId,omitempty"`
	TovConfigID      *int64                   `json:"tovConfigId,omitempty"`
	TovFormality     float64                  `json:"tovFormality"`
	TovWarmth        float64                  `json:"tovWarmth"`
	TovDirectness    float64                  `json:"tovDirectness"`
	Version          int                      `json:"version"`
	ParentSequenceID *int64                   `json:"parentSequenceId"`
	CompanyContext   string                   `json:"companyContext"`
	SequenceLength   int                      `json:"sequenceLength"`
	Messages         []model.GeneratedMessage `json:"messages"`
	ThinkingProcess  model.ThinkingProcess    `json:"thinkingProcess"`
	ProspectAnalysis string                   `json:"prospectAnalysis"`
	Metadata         model.Metadata           `json:"metadata"`
	CreatedAt        string                   `json:"createdAt"`
}

type LengthChange struct {
	From    int  `json:"from"`
	To      int  `json:"to"`
	Changed bool `json:"changed"`
}

type RefineChanges struct {
	Tov            model.ToneDiff `json:"tov"`
	SequenceLength LengthChange   `json:"sequenceLength"`
}

type RefineResponse struct {
	RefinedSequence  SequenceData     `json:"refinedSequence"`
	OriginalSequence SequenceData     `json:"originalSequence"`
	Changes          RefineChanges    `json:"changes"`
	Metadata         GenerateMetadata `json:"metadata"`
}

type SequencesResponse struct {
	Sequences []SequenceData `json:"sequences"`
}

type VersionData struct {
	ID                int64            `json:"id"`
	Version           int              `json:"version"`
	ParentSequenceID  *int64           `json:"parentSequenceId"`
	Tov               model.ToneVector `json:"tov"`
	SequenceLength    int              `json:"sequenceLength"`
	MessageCount      int              `json:"messageCount"`
	AverageConfidence float64          `json:"averageConfidence"`
	CreatedAt         string           `json:"createdAt"`
}

type VersionDeltaData struct {
	FromID          int64          `json:"fromId"`
	ToID            int64          `json:"toId"`
	Tov             model.ToneDiff `json:"tov"`
	ConfidenceDelta float64        `json:"confidenceDelta"`
	LengthChanged   bool           `json:"lengthChanged"`
}

type CompareResponse struct {
	Versions []VersionData      `json:"versions"`
	Deltas   []VersionDeltaData `json:"deltas"`
	Trend    string             `json:"trend"`
}

type StatsResponse struct {
	SequenceID       int64  `json:"sequenceId"`
	TotalRefinements int    `json:"totalRefinements"`
	LatestVersion    int    `json:"latestVersion"`
	CreatedAt        string `json:"createdAt"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Result is set when a sequence was generated but could not be stored
	Result *model.GenerationResult `json:"result,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toSequenceData(seq *db.Sequence) SequenceData {
	messages := seq.Result.Sequence
	if messages == nil {
		messages = []model.GeneratedMessage{}
	}
	return SequenceData{
		ID:               seq.ID,
		ProspectID:       seq.ProspectID,
		ProspectURL:      seq.ProspectURL,
		PromptID:         seq.PromptID,
		TovConfigID:      seq.TovConfigID,
		TovFormality:     seq.Tone.Formality,
		TovWarmth:        seq.Tone.Warmth,
		TovDirectness:    seq.Tone.Directness,
		Version:          seq.Version,
		ParentSequenceID: seq.ParentSequenceID,
		CompanyContext:   seq.CompanyContext,
		SequenceLength:   seq.SequenceLength,
		Messages:         messages,
		ThinkingProcess:  seq.Result.ThinkingProcess,
		ProspectAnalysis: seq.Result.ProspectAnalysis,
		Metadata:         seq.Result.Metadata,
		CreatedAt:        formatTime(seq.CreatedAt),
	}
}

func toSequenceList(seqs []db.Sequence) SequencesResponse {
	out := SequencesResponse{Sequences: make([]SequenceData, 0, len(seqs))}
	for i := range seqs {
		out.Sequences = append(out.Sequences, toSequenceData(&seqs[i]))
	}
	return out
}

func generateMetadata(seq *db.Sequence, promptVersion int, elapsedMs int64, outcome ai.Outcome) GenerateMetadata {
	return GenerateMetadata{
		Metadata:         seq.Result.Metadata,
		SequenceID:       seq.ID,
		ProspectID:       seq.ProspectID,
		PromptVersion:    promptVersion,
		GenerationTimeMs: elapsedMs,
		GenerationID:     outcome.GenerationID,
		Provider:         outcome.Provider,
		UsedFallback:     outcome.UsedFallback,
		Attempts:         outcome.Attempts,
	}
}

func toCompareResponse(cmp *sequence.Comparison) CompareResponse {
	resp := CompareResponse{
		Versions: make([]VersionData, 0, len(cmp.Versions)),
		Deltas:   make([]VersionDeltaData, 0, len(cmp.Deltas)),
		Trend:    cmp.Trend,
	}
	for _, v := range cmp.Versions {
		resp.Versions = append(resp.Versions, VersionData{
			ID:                v.ID,
			Version:           v.Version,
			ParentSequenceID:  v.ParentSequenceID,
			Tov:               v.Tone,
			SequenceLength:    v.SequenceLength,
			MessageCount:      v.MessageCount,
			AverageConfidence: v.AverageConfidence,
			CreatedAt:         formatTime(v.CreatedAt),
		})
	}
	for _, d := range cmp.Deltas {
		resp.Deltas = append(resp.Deltas, VersionDeltaData{
			FromID:          d.FromID,
			ToID:            d.ToID,
			Tov:             d.Tone,
			ConfidenceDelta: d.ConfidenceDelta,
			LengthChanged:   d.LengthChanged,
		})
	}
	return resp
}
