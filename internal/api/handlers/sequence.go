package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/sequence"
	"github.com/happychuks/linkedin-sequence-gen/pkg/validation"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SequenceService is the business logic behind the sequence endpoints
type SequenceService interface {
	Generate(ctx context.Context, req sequence.GenerateRequest) (*sequence.GenerateResult, error)
	Refine(ctx context.Context, req sequence.RefineRequest) (*sequence.RefineResult, error)
	GetRefinements(ctx context.Context, sequenceID int64) ([]db.Sequence, error)
	CompareVersions(ctx context.Context, ids []int64) (*sequence.Comparison, error)
	History(ctx context.Context, prospectID int64) ([]db.Sequence, error)
	GetSequence(ctx context.Context, id int64) (*db.Sequence, error)
	EditMessages(ctx context.Context, req sequence.EditRequest) (*db.Sequence, error)
	DeleteSequence(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (*db.SequenceStats, error)
	TonePresets(ctx context.Context) ([]config.TonePreset, error)
}

// SequenceHandlers serves the sequence API
type SequenceHandlers struct {
	validator *validation.SequenceRequestValidator
	service   SequenceService
}

// NewSequenceHandlers creates sequence handlers backed by the given service
func NewSequenceHandlers(service SequenceService) *SequenceHandlers {
	return &SequenceHandlers{
		validator: validation.NewSequenceRequestValidator(),
		service:   service,
	}
}

// GenerateHandler creates a new sequence for a prospect
func (h *SequenceHandlers) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validator.ValidateProspectURL(req.ProspectURL); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}
	if req.TovConfig == nil {
		sendError(w, http.StatusBadRequest, "Validation failed", errors.New("tov_config is required"))
		return
	}
	if err := h.validator.ValidateTone(req.TovConfig.Formality, req.TovConfig.Warmth, req.TovConfig.Directness); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}
	if err := h.validator.ValidateSequenceLength(req.SequenceLength); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"prospect_url":    req.ProspectURL,
		"sequence_length": req.SequenceLength,
	}).Info("Generate sequence request received")

	res, err := h.service.Generate(r.Context(), sequence.GenerateRequest{
		ProspectURL:    req.ProspectURL,
		Tone:           req.TovConfig.vector(),
		CompanyContext: req.CompanyContext,
		SequenceLength: req.SequenceLength,
	})
	if err != nil {
		sendServiceError(w, "Error generating sequence", err)
		return
	}

	sendJSON(w, http.StatusCreated, GenerateResponse{
		Sequence:         toSequenceData(res.Sequence).Messages,
		ThinkingProcess:  res.Sequence.Result.ThinkingProcess,
		ProspectAnalysis: res.Sequence.Result.ProspectAnalysis,
		Metadata:         generateMetadata(res.Sequence, res.PromptVersion, res.GenerationTimeMs, res.Outcome),
	})
}

// RefineHandler creates a new version of an existing sequence with a different tone
func (h *SequenceHandlers) RefineHandler(w http.ResponseWriter, r *http.Request) {
	var req RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.NewTovConfig == nil {
		sendError(w, http.StatusBadRequest, "Validation failed", errors.New("newTovConfig is required"))
		return
	}
	if err := h.validator.ValidateTone(req.NewTovConfig.Formality, req.NewTovConfig.Warmth, req.NewTovConfig.Directness); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}
	if err := h.validator.ValidateOptionalSequenceLength(req.NewSequenceLength); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	logger.Log.WithField("original_sequence_id", req.OriginalSequenceID).Info("Refine sequence request received")

	res, err := h.service.Refine(r.Context(), sequence.RefineRequest{
		OriginalSequenceID: req.OriginalSequenceID,
		Tone:               req.NewTovConfig.vector(),
		SequenceLength:     req.NewSequenceLength,
	})
	if err != nil {
		sendServiceError(w, "Error refining sequence", err)
		return
	}

	sendJSON(w, http.StatusCreated, RefineResponse{
		RefinedSequence:  toSequenceData(res.Refined),
		OriginalSequence: toSequenceData(res.Original),
		Changes: RefineChanges{
			Tov: res.Changes.Tone,
			SequenceLength: LengthChange{
				From:    res.Changes.PreviousLength,
				To:      res.Changes.NewLength,
				Changed: res.Changes.LengthChanged,
			},
		},
		Metadata: generateMetadata(res.Refined, res.PromptVersion, res.GenerationTimeMs, res.Outcome),
	})
}

// GetRefinementsHandler lists the direct refinements of a sequence
func (h *SequenceHandlers) GetRefinementsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "sequenceId")
	if !ok {
		return
	}

	refinements, err := h.service.GetRefinements(r.Context(), id)
	if err != nil {
		sendServiceError(w, "Error retrieving refinements", err)
		return
	}
	sendJSON(w, http.StatusOK, toSequenceList(refinements))
}

// CompareHandler compares versions given as ?ids=1,2 or ?originalId=1&refinedId=2
func (h *SequenceHandlers) CompareHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var ids []int64
	var err error
	switch {
	case query.Get("ids") != "":
		ids, err = h.validator.ParseIDList("ids", query.Get("ids"))
	case query.Get("originalId") != "" || query.Get("refinedId") != "":
		var original, refined int64
		original, err = h.validator.ParseID("originalId", query.Get("originalId"))
		if err == nil {
			refined, err = h.validator.ParseID("refinedId", query.Get("refinedId"))
		}
		ids = []int64{original, refined}
	default:
		err = errors.New("provide ids or originalId and refinedId")
	}
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid sequence IDs", err)
		return
	}

	cmp, err := h.service.CompareVersions(r.Context(), ids)
	if err != nil {
		sendServiceError(w, "Error comparing sequences", err)
		return
	}
	sendJSON(w, http.StatusOK, toCompareResponse(cmp))
}

// HistoryHandler lists every sequence generated for a prospect
func (h *SequenceHandlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "prospectId")
	if !ok {
		return
	}

	history, err := h.service.History(r.Context(), id)
	if err != nil {
		sendServiceError(w, "Error retrieving history", err)
		return
	}
	sendJSON(w, http.StatusOK, toSequenceList(history))
}

// GetSequenceHandler returns one sequence version
func (h *SequenceHandlers) GetSequenceHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	seq, err := h.service.GetSequence(r.Context(), id)
	if err != nil {
		sendServiceError(w, "Error retrieving sequence", err)
		return
	}
	sendJSON(w, http.StatusOK, toSequenceData(seq))
}

// EditMessagesHandler replaces the message texts of one sequence version
func (h *SequenceHandlers) EditMessagesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req EditMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Messages) == 0 {
		sendError(w, http.StatusBadRequest, "Validation failed", errors.New("messages is required"))
		return
	}

	seq, err := h.service.EditMessages(r.Context(), sequence.EditRequest{SequenceID: id, Messages: req.Messages})
	if err != nil {
		sendServiceError(w, "Error editing sequence", err)
		return
	}
	sendJSON(w, http.StatusOK, toSequenceData(seq))
}

// DeleteSequenceHandler deletes one sequence version
func (h *SequenceHandlers) DeleteSequenceHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSequence(r.Context(), id); err != nil {
		sendServiceError(w, "Error deleting sequence", err)
		return
	}
	sendJSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("Sequence %d deleted successfully", id),
	})
}

// StatsHandler reports refinement counts for a sequence
func (h *SequenceHandlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		sendServiceError(w, "Error retrieving sequence stats", err)
		return
	}
	sendJSON(w, http.StatusOK, StatsResponse{
		SequenceID:       id,
		TotalRefinements: stats.TotalRefinements,
		LatestVersion:    stats.LatestVersion,
		CreatedAt:        formatTime(stats.CreatedAt),
	})
}

// TonePresetsHandler lists the available tone presets
func (h *SequenceHandlers) TonePresetsHandler(w http.ResponseWriter, r *http.Request) {
	presets, err := h.service.TonePresets(r.Context())
	if err != nil {
		sendServiceError(w, "Error retrieving tone presets", err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"presets": presets})
}

func (h *SequenceHandlers) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := h.validator.ParseID(name, mux.Vars(r)[name])
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

// sendError sends a standardized JSON error response
func sendError(w http.ResponseWriter, status int, message string, err error) {
	errResp := ErrorResponse{Code: status, Message: message}
	if err != nil {
		errResp.Error = err.Error()
	}
	sendJSON(w, status, errResp)
}

// sendServiceError maps a service error to its status code
func sendServiceError(w http.ResponseWriter, message string, err error) {
	status := apperr.HTTPStatus(err)
	errResp := ErrorResponse{Code: status, Message: message, Error: err.Error()}

	var unpersisted *sequence.UnpersistedError
	if errors.As(err, &unpersisted) {
		errResp.Result = &unpersisted.Result
	}

	entry := logger.Log.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}
	sendJSON(w, status, errResp)
}
