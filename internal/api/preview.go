// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/magchat/magchat/internal/model"
)

const (
	// previewRetries is the number of additional attempts after the first.
	previewRetries = 2

	// previewBackoffStep is the linear backoff unit: attempt k (0-indexed)
	// waits (k+1) * step before resubmitting.
	previewBackoffStep = 1000 * time.Millisecond
)

// previewBackoff computes the delay before retrying after failed attempt k.
// Overridable for tests.
var previewBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt+1) * previewBackoffStep
}

// Preview fetches the cached filing text for a ticker. Each attempt arms an
// independent 10-second abort timer. Transport failures and timeouts are
// retried up to two more times with linear backoff; a domain 404 surfaces
// immediately as a not-found error with no retry.
func (c *Client) Preview(ctx context.Context, ticker string, format PreviewFormat) (*PreviewResponse, error) {
	normalized := model.NormalizeTicker(ticker)
	if normalized == "" {
		return nil, NewValidationError("select a ticker first")
	}
	if format == "" {
		format = PreviewMarkdown
	}
	path := "/api/sec-preview/" + url.PathEscape(normalized) + "?format=" + url.QueryEscape(string(format))

	var lastErr error
	for attempt := 0; attempt <= previewRetries; attempt++ {
		if attempt > 0 {
			delay := previewBackoff(attempt - 1)
			c.log.Debug("retrying preview fetch",
				zap.String("ticker", normalized),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		var out PreviewResponse
		err := c.doJSON(ctx, http.MethodGet, path, nil, &out, PreviewTimeout)
		if err == nil {
			return &out, nil
		}

		if IsNotFound(err) {
			return nil, fmt.Errorf("filing not found for %s: %w", normalized, err)
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("preview fetch failed after %d attempts: %w", previewRetries+1, lastErr)
}
