package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("refine: %w", NotFound("sequence %d not found", 42))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Contains(t, err.Error(), "sequence 42 not found")
}

func TestFromStatus(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindProviderAuth},
		{http.StatusForbidden, KindProviderAuth},
		{http.StatusTooManyRequests, KindProviderRateLimit},
		{http.StatusBadRequest, KindProviderRequest},
		{0, KindProviderRequest},
	}

	for _, tt := range tests {
		err := FromStatus("groq", tt.status, cause)
		assert.Equal(t, tt.want, err.Kind, "status %d", tt.status)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "boom")
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidArgument("x")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(SchemaMismatch("x")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(New(KindPersistence, nil, "db down")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(New(KindProviderUnavailable, errors.New("no key"), "anthropic")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
