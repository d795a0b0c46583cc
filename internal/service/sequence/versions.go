package sequence

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
)

// Confidence trends across compared versions
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// VersionSummary is one compared version
type VersionSummary struct {
	ID                int64
	Version           int
	ParentSequenceID  *int64
	Tone              model.ToneVector
	SequenceLength    int
	MessageCount      int
	AverageConfidence float64
	CreatedAt         time.Time
}

// VersionDelta compares two consecutive versions
type VersionDelta struct {
	FromID          int64
	ToID            int64
	Tone            model.ToneDiff
	ConfidenceDelta float64
	LengthChanged   bool
}

// Comparison is the result of CompareVersions, ordered by version ascending
type Comparison struct {
	Versions []VersionSummary
	Deltas   []VersionDelta
	Trend    string
}

// CompareVersions loads the given sequences and reports tone, length and confidence changes
func (s *Service) CompareVersions(ctx context.Context, ids []int64) (*Comparison, error) {
	if len(ids) == 0 {
		return nil, apperr.InvalidArgument("at least one sequence id is required")
	}
	for _, id := range ids {
		if err := validateID("sequence id", id); err != nil {
			return nil, err
		}
	}

	sequences, err := s.db.FindSequencesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if missing := missingIDs(ids, sequences); len(missing) > 0 {
		return nil, apperr.NotFound("sequences not found: %s", joinIDs(missing))
	}

	// Store order is version ascending already; keep it stable for equal versions
	sort.SliceStable(sequences, func(i, j int) bool { return sequences[i].Version < sequences[j].Version })

	cmp := &Comparison{Versions: make([]VersionSummary, 0, len(sequences))}
	for i, seq := range sequences {
		cmp.Versions = append(cmp.Versions, VersionSummary{
			ID:                seq.ID,
			Version:           seq.Version,
			ParentSequenceID:  seq.ParentSequenceID,
			Tone:              seq.Tone,
			SequenceLength:    seq.SequenceLength,
			MessageCount:      len(seq.Result.Sequence),
			AverageConfidence: model.AverageConfidence(seq.Result.Sequence),
			CreatedAt:         seq.CreatedAt,
		})
		if i == 0 {
			continue
		}
		prev, cur := cmp.Versions[i-1], cmp.Versions[i]
		cmp.Deltas = append(cmp.Deltas, VersionDelta{
			FromID:          prev.ID,
			ToID:            cur.ID,
			Tone:            prev.Tone.Diff(cur.Tone),
			ConfidenceDelta: model.Round(cur.AverageConfidence-prev.AverageConfidence, 2),
			LengthChanged:   prev.SequenceLength != cur.SequenceLength,
		})
	}
	cmp.Trend = trend(cmp.Versions)
	return cmp, nil
}

// trend compares the first and last version's average confidence
func trend(versions []VersionSummary) string {
	if len(versions) < 2 {
		return TrendStable
	}
	diff := model.Round(versions[len(versions)-1].AverageConfidence-versions[0].AverageConfidence, 2)
	switch {
	case diff > 0:
		return TrendImproving
	case diff < 0:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func missingIDs(requested []int64, found []db.Sequence) []int64 {
	present := make(map[int64]bool, len(found))
	for _, seq := range found {
		present[seq.ID] = true
	}
	var missing []int64
	seen := make(map[int64]bool)
	for _, id := range requested {
		if !present[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// GetRefinements returns the direct refinements of a sequence, newest first
func (s *Service) GetRefinements(ctx context.Context, sequenceID int64) ([]db.Sequence, error) {
	if err := validateID("sequence id", sequenceID); err != nil {
		return nil, err
	}
	if _, err := s.db.GetSequence(ctx, sequenceID); err != nil {
		return nil, err
	}
	return s.db.FindRefinementsByParentID(ctx, sequenceID)
}

// History returns every sequence generated for a prospect, newest first
func (s *Service) History(ctx context.Context, prospectID int64) ([]db.Sequence, error) {
	if err := validateID("prospect id", prospectID); err != nil {
		return nil, err
	}
	if _, err := s.db.GetProspect(ctx, prospectID); err != nil {
		return nil, err
	}
	return s.db.FindSequencesByProspectID(ctx, prospectID)
}

// GetSequence returns one sequence version
func (s *Service) GetSequence(ctx context.Context, id int64) (*db.Sequence, error) {
	if err := validateID("sequence id", id); err != nil {
		return nil, err
	}
	return s.db.GetSequence(ctx, id)
}

// DeleteSequence removes one version. Its refinements remain as roots.
func (s *Service) DeleteSequence(ctx context.Context, id int64) error {
	if err := validateID("sequence id", id); err != nil {
		return err
	}
	return s.db.DeleteSequence(ctx, id)
}

// Stats summarizes the refinements of a sequence
func (s *Service) Stats(ctx context.Context, id int64) (*db.SequenceStats, error) {
	if err := validateID("sequence id", id); err != nil {
		return nil, err
	}
	return s.db.GetSequenceStats(ctx, id)
}
