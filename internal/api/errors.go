// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for transport-level failures.
var (
	// ErrCannotConnect indicates the backend is unreachable (DNS failure,
	// connection refused, network down).
	ErrCannotConnect = errors.New("cannot connect to backend")

	// ErrTimeout indicates a client-enforced timeout fired and aborted the
	// in-flight request.
	ErrTimeout = errors.New("request timed out")

	// ErrEmptyBody indicates a streaming response arrived without a body.
	ErrEmptyBody = errors.New("response has no body")
)

// HTTPError represents a non-2xx response from the backend. Body carries the
// raw response text as diagnostic detail (the backend returns FastAPI-style
// {"detail": ...} payloads, but opaque bodies are preserved as-is).
type HTTPError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned %d for %s: %s", e.StatusCode, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("backend returned %d for %s", e.StatusCode, e.Endpoint)
}

// NotFound reports whether the error is an HTTP 404.
func (e *HTTPError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ValidationError represents a client-side precondition failure. No network
// call is made when one of these is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a validation error.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsTimeout reports whether the error was caused by a client-enforced abort.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsTransport reports whether the error is a network-level failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrCannotConnect)
}

// IsNotFound reports whether the error is a domain 404.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.NotFound()
}

// IsRetryable reports whether the preview path may retry after this error.
// Transport failures and timeouts are retryable; domain errors are not.
func IsRetryable(err error) bool {
	if IsNotFound(err) {
		return false
	}
	return IsTransport(err) || IsTimeout(err)
}

// wrapTransport converts a net/http client error into the taxonomy. Context
// cancellation from the per-call timeout becomes ErrTimeout; everything else
// at the transport level becomes ErrCannotConnect with the cause attached.
func wrapTransport(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrCannotConnect, err)
}
