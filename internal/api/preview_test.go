// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingTransport counts round trips and always fails with a network error.
type failingTransport struct {
	calls atomic.Int32
}

func (t *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return nil, &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "backend"}}
}

func withFastBackoff(t *testing.T) *[]time.Duration {
	t.Helper()
	original := previewBackoff
	var delays []time.Duration
	previewBackoff = func(attempt int) time.Duration {
		delays = append(delays, time.Duration(attempt+1)*previewBackoffStep)
		return 0
	}
	t.Cleanup(func() { previewBackoff = original })
	return &delays
}

func TestPreviewRetriesNetworkFailuresExactlyThreeTimes(t *testing.T) {
	delays := withFastBackoff(t)

	transport := &failingTransport{}
	client := NewClient("http://backend.invalid").WithHTTPClient(&http.Client{Transport: transport})

	_, err := client.Preview(context.Background(), "AAPL", PreviewText)
	require.Error(t, err)
	assert.True(t, IsTransport(err), "exhausted retries must surface the connectivity error, got: %v", err)

	assert.Equal(t, int32(3), transport.calls.Load(), "1 attempt + 2 retries")
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond}, *delays,
		"linear backoff: 1000ms then 2000ms")
}

func TestPreviewNotFoundSurfacesImmediately(t *testing.T) {
	withFastBackoff(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "No cached text file found for TSLA. Fetch the filing first."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Preview(context.Background(), "tsla", PreviewText)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filing not found for TSLA")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load(), "404 must not be retried")
}

func TestPreviewSucceedsAfterTransientFailure(t *testing.T) {
	withFastBackoff(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Drop the connection so the first attempt fails at transport level.
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		require.Equal(t, "/api/sec-preview/MSFT", r.URL.Path)
		require.Equal(t, "markdown", r.URL.Query().Get("format"))
		w.Write([]byte(`{"ticker": "MSFT", "format": "markdown", "content": "# Item 1. Business", "file_size": 18}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Preview(context.Background(), "MSFT", PreviewMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "# Item 1. Business", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPreviewServerErrorNotRetried(t *testing.T) {
	withFastBackoff(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Preview(context.Background(), "AMZN", PreviewText)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, int32(1), calls.Load(), "domain errors are not retried")
}

func TestPreviewRequiresTicker(t *testing.T) {
	client := NewClient("http://backend.invalid")
	_, err := client.Preview(context.Background(), "  ", PreviewText)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
