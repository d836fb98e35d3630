// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// StreamHandle is an open streamed-answer response. The caller owns Body and
// must Close it. Frame parsing is intentionally not provided here: the
// backend's token framing is not pinned down, so consumers decide how to
// read the raw bytes.
type StreamHandle struct {
	// Body is the open byte stream of the answer.
	Body ReadCloser

	// ContentType is the Content-Type the backend declared, as a framing hint
	// (e.g. "text/event-stream" vs "application/x-ndjson").
	ContentType string

	// StartedAt is when the response headers arrived.
	StartedAt time.Time

	cancel context.CancelFunc
}

// ReadCloser is the minimal stream surface exposed to consumers.
type ReadCloser interface {
	Read(p []byte) (int, error)
	Close() error
}

// Close aborts the stream and releases the connection.
func (h *StreamHandle) Close() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.Body != nil {
		return h.Body.Close()
	}
	return nil
}

// ChatStream opens a streamed single-ticker question. No client-enforced
// timeout is armed: the stream lives until the server closes it or the
// handle is closed. The returned handle's cancel is independent of other
// in-flight calls.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest) (*StreamHandle, error) {
	if req.Ticker == "" {
		return nil, NewValidationError("select a ticker first")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, NewValidationError("question must not be empty")
	}
	req.Stream = true

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/stream", bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream, application/x-ndjson, text/plain")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		cancel()
		return nil, wrapTransport(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := readResponse(resp)
		resp.Body.Close()
		cancel()
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Endpoint:   "/api/chat/stream",
			Body:       strings.TrimSpace(string(data)),
		}
	}
	if resp.Body == nil {
		cancel()
		return nil, ErrEmptyBody
	}

	return &StreamHandle{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		StartedAt:   time.Now(),
		cancel:      cancel,
	}, nil
}
