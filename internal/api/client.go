// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/magchat/magchat/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// Per-endpoint client-enforced timeouts.
	HealthTimeout  = 3 * time.Second
	FetchTimeout   = 30 * time.Second
	ChatTimeout    = 180 * time.Second
	CompareTimeout = 600 * time.Second
	PreviewTimeout = 10 * time.Second

	// MaxResponseSize caps response bodies to prevent memory exhaustion.
	MaxResponseSize = 32 * 1024 * 1024
)

// sharedHTTPClient pools connections for all request/response calls. It has
// no global timeout: each call arms its own context deadline, and endpoints
// without a declared timeout rely on the transport defaults.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// Client communicates with the filings RAG backend.
//
// The Client is safe for concurrent use. Every timeout-bound call arms an
// independent cancellation signal at call start; cancelling one call never
// affects others.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a client for the given base URL. An empty baseURL falls
// back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    sharedHTTPClient,
		log:     zap.NewNop(),
	}
}

// WithLogger sets the structured logger used for request/response logging.
// Bodies are never logged.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	if log != nil {
		c.log = log
	}
	return c
}

// WithHTTPClient overrides the underlying HTTP client (tests).
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		c.http = httpClient
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Health checks backend liveness. 3-second timeout.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out, HealthTimeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchFilings triggers ingestion of SEC filings for a ticker. 30-second
// timeout; ingestion continues server-side after the call returns.
func (c *Client) FetchFilings(ctx context.Context, ticker string, forms []string, count int) error {
	if model.NormalizeTicker(ticker) == "" {
		return NewValidationError("select a ticker first")
	}
	req := FetchRequest{Ticker: model.NormalizeTicker(ticker), Forms: forms, Count: count}
	if len(req.Forms) == 0 {
		req.Forms = []string{"10-K", "10-Q"}
	}
	return c.doJSON(ctx, http.MethodPost, "/api/fetch-sec", req, nil, FetchTimeout)
}

// Upload ingests an arbitrary document via multipart POST. No client-enforced
// timeout; large uploads rely on the transport defaults.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader, ticker string) (*UploadResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}
	if ticker != "" {
		if err := w.WriteField("ticker", model.NormalizeTicker(ticker)); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out UploadResponse
	if err := c.execute(ctx, req, "/api/upload", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat asks a single-ticker question. 180-second timeout.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Ticker == "" {
		return nil, NewValidationError("select a ticker first")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, NewValidationError("question must not be empty")
	}
	var out ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", req, &out, ChatTimeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatBatch processes several chat requests in one call. Uses the compare
// timeout since the backend fans out to multiple model calls.
func (c *Client) ChatBatch(ctx context.Context, reqs []ChatRequest) (*BatchChatResponse, error) {
	if len(reqs) == 0 {
		return nil, NewValidationError("no requests to send")
	}
	var out BatchChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/batch", BatchChatRequest{Requests: reqs}, &out, CompareTimeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare asks one question against two or more tickers. 600-second timeout:
// comparison may invoke multiple live model calls sequentially server-side.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*CompareResponse, error) {
	if len(req.Tickers) < 2 {
		return nil, NewValidationError("need at least two tickers to compare")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, NewValidationError("question must not be empty")
	}
	var out CompareResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/compare", req, &out, CompareTimeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// DataAvailability reports what the backend has indexed for a ticker.
// No client-enforced timeout.
func (c *Client) DataAvailability(ctx context.Context, ticker string) (*DataAvailability, error) {
	if model.NormalizeTicker(ticker) == "" {
		return nil, NewValidationError("select a ticker first")
	}
	path := "/api/data-availability?ticker=" + url.QueryEscape(model.NormalizeTicker(ticker))
	var out DataAvailability
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, 0); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// REQUEST EXECUTION
// =============================================================================

// doJSON performs a JSON request/response cycle against one endpoint.
// A non-zero timeout arms an abort signal at call start; firing it cancels
// the in-flight operation and surfaces ErrTimeout.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.execute(ctx, req, path, out)
}

// execute sends a prepared request, classifies failures, and decodes the
// response into out (when non-nil).
func (c *Client) execute(ctx context.Context, req *http.Request, endpoint string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		wrapped := wrapTransport(ctx, err)
		c.log.Warn("api request failed",
			zap.String("method", req.Method),
			zap.String("path", endpoint),
			zap.Duration("duration", duration),
			zap.Error(wrapped))
		return wrapped
	}
	defer resp.Body.Close()

	c.log.Debug("api response",
		zap.String("method", req.Method),
		zap.String("path", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))

	data, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}
	return nil
}

// readResponse reads a response body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", int64(MaxResponseSize))
	}
	return data, nil
}
