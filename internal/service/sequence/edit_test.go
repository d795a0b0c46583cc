package sequence

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditMessages_RewritesAndRescores(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(t, store, &fakeGenerator{confidence: 0.7})
	res := generate(t, svc, model.ToneVector{Formality: 0.5, Warmth: 0.5, Directness: 0.5}, 2)

	edited, err := svc.EditMessages(context.Background(), EditRequest{
		SequenceID: res.Sequence.ID,
		Messages:   []string{"Hi Jane Smith, loved your talk.", "Short note."},
	})
	require.NoError(t, err)

	msgs := edited.Result.Sequence
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hi Jane Smith, loved your talk.", msgs[0].Message)
	assert.Equal(t, model.MessageOpening, msgs[0].Type)
	assert.Equal(t, 0.55, *msgs[0].Confidence)
	assert.Equal(t, "Short note.", msgs[1].Message)
	assert.Equal(t, model.MessageFollowUp, msgs[1].Type)
	assert.Equal(t, 0.4, *msgs[1].Confidence)

	assert.Equal(t, res.Sequence.Version, edited.Version)
	assert.Equal(t, "analysis", edited.Result.ProspectAnalysis)
	assert.Equal(t, "mock-model", edited.Result.Metadata.ModelUsed)

	stored, err := store.GetSequence(context.Background(), res.Sequence.ID)
	require.NoError(t, err)
	assert.Equal(t, edited.Result, stored.Result)
}

func TestEditMessages_Rejects(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(t, store, &fakeGenerator{confidence: 0.7})
	res := generate(t, svc, model.ToneVector{Formality: 0.5, Warmth: 0.5, Directness: 0.5}, 2)
	ctx := context.Background()

	tests := []struct {
		name string
		req  EditRequest
		want error
	}{
		{"non-positive id", EditRequest{SequenceID: 0, Messages: []string{"a", "b"}}, apperr.ErrInvalidArgument},
		{"missing sequence", EditRequest{SequenceID: 404, Messages: []string{"a", "b"}}, apperr.ErrNotFound},
		{"wrong count", EditRequest{SequenceID: res.Sequence.ID, Messages: []string{"only one"}}, apperr.ErrInvalidArgument},
		{"blank message", EditRequest{SequenceID: res.Sequence.ID, Messages: []string{"fine", "   "}}, apperr.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EditMessages(ctx, tt.req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	stored, err := store.GetSequence(ctx, res.Sequence.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Sequence.Result, stored.Result)
}

// flakyUpdateStore fails UpdateSequenceResult a fixed number of times
type flakyUpdateStore struct {
	*memory.Store
	failures int32
	attempts int32
}

func (f *flakyUpdateStore) UpdateSequenceResult(ctx context.Context, id int64, result model.GenerationResult) (*db.Sequence, error) {
	n := atomic.AddInt32(&f.attempts, 1)
	if n <= atomic.LoadInt32(&f.failures) {
		return nil, apperr.New(apperr.KindPersistence, errors.New("connection reset"), "updating sequence")
	}
	return f.Store.UpdateSequenceResult(ctx, id, result)
}

func TestEditMessages_RetriesPersistence(t *testing.T) {
	store := &flakyUpdateStore{Store: memory.NewStore(), failures: 1}
	svc := newTestService(t, store, &fakeGenerator{confidence: 0.7})
	res := generate(t, svc, model.ToneVector{Formality: 0.5, Warmth: 0.5, Directness: 0.5}, 1)

	edited, err := svc.EditMessages(context.Background(), EditRequest{SequenceID: res.Sequence.ID, Messages: []string{"Hi Jane Smith"}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&store.attempts))
	assert.Equal(t, "Hi Jane Smith", edited.Result.Sequence[0].Message)
}
