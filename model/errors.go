package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrProviderNotAvailable matches every *NotAvailableError via errors.Is.
	ErrProviderNotAvailable = errors.New("provider not available")

	// ErrNoProvidersConfigured is returned when no registered provider passes
	// IsConfigured at dispatch time.
	ErrNoProvidersConfigured = errors.New("no AI providers are configured")
)

// NotAvailableError reports that a requested identity is either absent from the
// registry or present but not configured.
type NotAvailableError struct {
	Identity Identity
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("provider %s is not available or not configured", e.Identity)
}

func (e *NotAvailableError) Is(target error) bool {
	return target == ErrProviderNotAvailable
}

// TransportErrorKind classifies a backend failure.
type TransportErrorKind string

const (
	KindAuth       TransportErrorKind = "auth"
	KindRateLimit  TransportErrorKind = "rate_limit"
	KindBadRequest TransportErrorKind = "bad_request"
	KindServer     TransportErrorKind = "server"
	KindCanceled   TransportErrorKind = "canceled"
	KindUnknown    TransportErrorKind = "unknown"
)

// TransportError wraps any failure of the underlying network call. The cause is
// kept intact so SDK error types remain reachable through errors.As.
type TransportError struct {
	Provider   string
	Kind       TransportErrorKind
	HTTPStatus int
	Cause      error
}

// NewTransportError classifies cause using the HTTP status reported by the SDK
// (0 when unknown).
func NewTransportError(provider string, status int, cause error) *TransportError {
	return &TransportError{
		Provider:   provider,
		Kind:       classify(status, cause),
		HTTPStatus: status,
		Cause:      cause,
	}
}

func (e *TransportError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Provider, e.Kind, e.HTTPStatus, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func classify(status int, cause error) TransportErrorKind {
	switch {
	case errors.Is(cause, context.Canceled), errors.Is(cause, context.DeadlineExceeded):
		return KindCanceled
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindBadRequest
	default:
		return KindUnknown
	}
}
