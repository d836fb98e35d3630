// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"github.com/magchat/magchat/internal/model"
)

// =============================================================================
// HEALTH
// =============================================================================

// HealthResponse reports backend liveness and feature configuration.
type HealthResponse struct {
	Status              string `json:"status"`
	PineconeConnected   bool   `json:"pinecone_connected"`
	OpenAIConfigured    bool   `json:"openai_configured"`
	AnthropicConfigured bool   `json:"anthropic_configured"`
}

// Healthy reports whether the backend considers itself operational.
func (h HealthResponse) Healthy() bool {
	return h.Status == "healthy" || h.Status == "ok"
}

// =============================================================================
// INGESTION
// =============================================================================

// FetchRequest triggers ingestion of SEC filings for a ticker.
type FetchRequest struct {
	Ticker string   `json:"ticker"`
	Forms  []string `json:"forms"`
	Count  int      `json:"count,omitempty"`
}

// UploadResponse confirms a document upload.
type UploadResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ChunksStored int    `json:"chunks_stored"`
}

// DataAvailability describes what the backend has indexed for a ticker.
type DataAvailability struct {
	Ticker  string `json:"ticker"`
	HasData bool   `json:"has_data"`
	Count   int    `json:"count"`
}

// =============================================================================
// CHAT
// =============================================================================

// ChatRequest is the wire body for /api/chat and /api/chat/stream.
type ChatRequest struct {
	Ticker         string `json:"ticker"`
	Question       string `json:"question"`
	ModelProvider  string `json:"model_provider"`
	SearchMode     string `json:"search_mode"`
	Sources        string `json:"sources"`
	EnableRerank   bool   `json:"enable_rerank"`
	EnableRewrite  bool   `json:"enable_query_rewrite"`
	EnableCache    bool   `json:"enable_retrieval_cache"`
	EnableSections bool   `json:"enable_section_boost"`
	RerankerModel  string `json:"reranker_model"`
	Stream         bool   `json:"stream,omitempty"`
}

// NewChatRequest builds a chat request from a ticker, question, and options.
func NewChatRequest(ticker, question string, opts model.RequestOptions) ChatRequest {
	return ChatRequest{
		Ticker:         model.NormalizeTicker(ticker),
		Question:       question,
		ModelProvider:  string(opts.Provider),
		SearchMode:     string(opts.SearchMode),
		Sources:        opts.Sources,
		EnableRerank:   opts.Rerank,
		EnableRewrite:  opts.QueryRewrite,
		EnableCache:    opts.RetrievalCache,
		EnableSections: opts.SectionBoost,
		RerankerModel:  opts.RerankerModel,
	}
}

// ChatResponse is the answer for a single-ticker question.
type ChatResponse struct {
	Answer       string           `json:"answer"`
	Citations    []model.Citation `json:"citations"`
	FlagsSummary string           `json:"flags_summary"`
	CacheHit     bool             `json:"cache_hit"`
}

// =============================================================================
// BATCH CHAT
// =============================================================================

// BatchChatRequest carries multiple chat requests in one call.
type BatchChatRequest struct {
	Requests []ChatRequest `json:"requests"`
}

// BatchChatResponse aggregates per-request answers with a comparative summary.
type BatchChatResponse struct {
	Responses          []ChatResponse `json:"responses"`
	Total              int            `json:"total"`
	Successful         int            `json:"successful"`
	Failed             int            `json:"failed"`
	ComparativeSummary string         `json:"comparative_summary"`
}

// =============================================================================
// COMPARE
// =============================================================================

// CompareRequest asks one question against two or more tickers.
type CompareRequest struct {
	Tickers        []string `json:"tickers"`
	Question       string   `json:"question"`
	ModelProvider  string   `json:"model_provider"`
	SearchMode     string   `json:"search_mode"`
	Sources        string   `json:"sources"`
	EnableRerank   bool     `json:"enable_rerank"`
	EnableRewrite  bool     `json:"enable_query_rewrite"`
	EnableCache    bool     `json:"enable_retrieval_cache"`
	EnableSections bool     `json:"enable_section_boost"`
	RerankerModel  string   `json:"reranker_model"`
}

// NewCompareRequest builds a compare request from tickers, a question, and options.
func NewCompareRequest(tickers []string, question string, opts model.RequestOptions) CompareRequest {
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if n := model.NormalizeTicker(t); n != "" {
			normalized = append(normalized, n)
		}
	}
	return CompareRequest{
		Tickers:        normalized,
		Question:       question,
		ModelProvider:  string(opts.Provider),
		SearchMode:     string(opts.SearchMode),
		Sources:        opts.Sources,
		EnableRerank:   opts.Rerank,
		EnableRewrite:  opts.QueryRewrite,
		EnableCache:    opts.RetrievalCache,
		EnableSections: opts.SectionBoost,
		RerankerModel:  opts.RerankerModel,
	}
}

// CompareResult is the per-ticker slice of a comparison run.
type CompareResult struct {
	Ticker       string `json:"ticker"`
	Answer       string `json:"answer"`
	FlagsSummary string `json:"flags_summary"`
	CacheHit     bool   `json:"cache_hit"`
}

// CompareResponse is the combined comparison answer.
type CompareResponse struct {
	CombinedAnswer string          `json:"combined_answer"`
	Results        []CompareResult `json:"results"`
}

// =============================================================================
// PREVIEW
// =============================================================================

// PreviewFormat selects the rendering of a cached filing preview.
type PreviewFormat string

const (
	PreviewMarkdown PreviewFormat = "markdown"
	PreviewText     PreviewFormat = "text"
)

// PreviewResponse carries the raw text of a cached filing.
type PreviewResponse struct {
	Ticker   string `json:"ticker"`
	Format   string `json:"format"`
	Content  string `json:"content"`
	FileSize int    `json:"file_size"`
}
