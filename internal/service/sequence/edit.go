package sequence

import (
	"context"
	"strings"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/ai"

	"github.com/sirupsen/logrus"
)

// EditRequest replaces the text of every message in a stored sequence, in order
type EditRequest struct {
	SequenceID int64
	Messages   []string
}

// EditMessages rewrites message texts in place and rescores them.
// Message types, reasoning and generation metadata are kept. The version does not change.
func (s *Service) EditMessages(ctx context.Context, req EditRequest) (*db.Sequence, error) {
	if err := validateID("sequence id", req.SequenceID); err != nil {
		return nil, err
	}

	seq, err := s.db.GetSequence(ctx, req.SequenceID)
	if err != nil {
		return nil, err
	}

	if len(req.Messages) != len(seq.Result.Sequence) {
		return nil, apperr.InvalidArgument("expected %d messages, got %d", len(seq.Result.Sequence), len(req.Messages))
	}
	for i, text := range req.Messages {
		if strings.TrimSpace(text) == "" {
			return nil, apperr.InvalidArgument("message %d is empty", i+1)
		}
	}

	result := seq.Result.Clone()
	for i := range result.Sequence {
		result.Sequence[i].Message = req.Messages[i]
	}
	result.Sequence = ai.OptimizeScores(result.Sequence, ai.ExtractName(seq.ProspectURL))

	var updated *db.Sequence
	err = s.withRetry(ctx, "update sequence", func(ctx context.Context) error {
		stored, err := s.db.UpdateSequenceResult(ctx, seq.ID, result)
		if err != nil {
			return err
		}
		updated = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"sequence_id": updated.ID,
		"messages":    len(req.Messages),
	}).Info("Sequence messages edited")

	return updated, nil
}
