package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"

	"github.com/sirupsen/logrus"
)

const defaultRetryBaseDelay = 500 * time.Millisecond

// UnpersistedError is returned when generation succeeded but the result could not be stored.
// The generated content is carried so the caller can still use it.
type UnpersistedError struct {
	Result model.GenerationResult
	Err    error
}

func (e *UnpersistedError) Error() string {
	return fmt.Sprintf("sequence generated but not persisted: %v", e.Err)
}

func (e *UnpersistedError) Unwrap() error {
	return e.Err
}

// retryable reports whether a storage failure may succeed on a later attempt
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch apperr.KindOf(err) {
	case apperr.KindNotFound, apperr.KindInvalidArgument:
		return false
	}
	return true
}

// withRetry runs op up to maxRetries times with exponential backoff (base, 2*base, ...),
// all under the persistence timeout.
func (s *Service) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if s.persistenceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.persistenceTimeout)
		defer cancel()
	}

	maxRetries := s.maxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.retryBaseDelay * time.Duration(1<<uint(attempt-1))
			logger.Log.WithFields(logrus.Fields{
				"operation":   op,
				"delay":       delay,
				"attempt":     attempt + 1,
				"max_retries": maxRetries,
			}).Info("Retrying persistence")

			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: %w (last error: %v)", op, ctx.Err(), lastErr)
			case <-time.After(delay):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"operation": op,
			"attempt":   attempt + 1,
		}).Warn("Persistence attempt failed")
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, maxRetries, lastErr)
}
