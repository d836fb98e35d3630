// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error.
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments.
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error.
	ExitConfigError = 3
	// ExitNetworkError indicates the backend is unreachable.
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found.
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out.
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError represents invalid command arguments.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// NewUsageError creates a usage error.
func NewUsageError(format string, a ...any) error {
	return &UsageError{Reason: fmt.Sprintf(format, a...)}
}

// ConfigError represents a configuration load or validation failure.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ExitCodeFor maps an error onto the exit code taxonomy.
func ExitCodeFor(err error) int {
	var usageErr *UsageError
	var configErr *ConfigError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.As(err, &configErr):
		return ExitConfigError
	case api.IsTimeout(err):
		return ExitTimeoutError
	case api.IsNotFound(err), errors.Is(err, storage.ErrSessionNotFound):
		return ExitNotFoundError
	case api.IsTransport(err):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}
