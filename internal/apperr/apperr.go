package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for recovery and transport mapping
type Kind string

const (
	KindProviderAuth      Kind = "provider_auth"
	KindProviderRateLimit Kind = "provider_rate_limit"
	KindProviderRequest   Kind = "provider_request"
	KindSchemaMismatch    Kind = "schema_mismatch"
	KindNotFound          Kind = "not_found"
	KindInvalidArgument   Kind = "invalid_argument"
	KindPersistence       Kind = "persistence"
	KindInternal          Kind = "internal"

	// KindProviderUnavailable means the provider cannot be built, e.g. its API key is missing
	KindProviderUnavailable Kind = "provider_unavailable"
)

// Sentinels for errors.Is checks. Only the Kind is compared.
var (
	ErrProviderAuth        = &Error{Kind: KindProviderAuth}
	ErrProviderRateLimit   = &Error{Kind: KindProviderRateLimit}
	ErrProviderRequest     = &Error{Kind: KindProviderRequest}
	ErrProviderUnavailable = &Error{Kind: KindProviderUnavailable}
	ErrSchemaMismatch      = &Error{Kind: KindSchemaMismatch}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrPersistence         = &Error{Kind: KindPersistence}
)

// Error wraps an underlying error with a kind and a safe message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an Error of the given kind
func New(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Err: err, Message: message}
}

// NotFound builds a not-found error for a named resource
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument builds an invalid-argument error
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// SchemaMismatch builds a schema-mismatch error carrying the validation diagnostic
func SchemaMismatch(diagnostic string) *Error {
	return &Error{Kind: KindSchemaMismatch, Message: "AI response schema mismatch: " + diagnostic}
}

// FromStatus classifies a provider failure by its HTTP status code.
// Status 0 means the request never produced a response (network, timeout).
func FromStatus(provider string, status int, err error) *Error {
	kind := KindProviderRequest
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindProviderAuth
	case http.StatusTooManyRequests:
		kind = KindProviderRateLimit
	}
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf("%s API error", provider),
		Err:     err,
	}
}

// KindOf returns the kind of the first *Error in the chain, or KindInternal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code handlers should answer with
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindProviderAuth, KindProviderRateLimit, KindProviderRequest, KindSchemaMismatch:
		return http.StatusBadGateway
	case KindPersistence, KindProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
