// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// PROVIDER AND SEARCH MODE
// =============================================================================

// Provider identifies the LLM provider the backend should use.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Valid reports whether the provider is a known value.
func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama:
		return true
	}
	return false
}

// SearchMode selects the backend retrieval strategy.
type SearchMode string

const (
	SearchVector SearchMode = "vector"
	SearchHybrid SearchMode = "hybrid"
)

// Valid reports whether the search mode is a known value.
func (m SearchMode) Valid() bool {
	return m == SearchVector || m == SearchHybrid
}

// =============================================================================
// REQUEST OPTIONS
// =============================================================================

// RequestOptions is the immutable flag bag threaded into every chat and
// compare request. Construct one per request and pass it by value; request
// builders read it and never mutate it.
type RequestOptions struct {
	Provider       Provider   `json:"model_provider"`
	SearchMode     SearchMode `json:"search_mode"`
	Sources        string     `json:"sources"`
	Rerank         bool       `json:"enable_rerank"`
	QueryRewrite   bool       `json:"enable_query_rewrite"`
	RetrievalCache bool       `json:"enable_retrieval_cache"`
	SectionBoost   bool       `json:"enable_section_boost"`
	RerankerModel  string     `json:"reranker_model"`
}

// DefaultOptions returns the backend's documented defaults.
func DefaultOptions() RequestOptions {
	return RequestOptions{
		Provider:      ProviderOpenAI,
		SearchMode:    SearchVector,
		Sources:       "both",
		RerankerModel: "builtin",
	}
}

// Validate checks the options against the known enum values.
func (o RequestOptions) Validate() error {
	if !o.Provider.Valid() {
		return fmt.Errorf("unknown model provider: %q", o.Provider)
	}
	if !o.SearchMode.Valid() {
		return fmt.Errorf("unknown search mode: %q", o.SearchMode)
	}
	return nil
}

// Summary renders the flag state the way the backend's flags_summary does.
func (o RequestOptions) Summary() string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return strings.Join([]string{
		"rerank=" + onOff(o.Rerank),
		"rewrite=" + onOff(o.QueryRewrite),
		"cache=" + onOff(o.RetrievalCache),
		"section_boost=" + onOff(o.SectionBoost),
		"reranker=" + o.RerankerModel,
	}, ", ")
}
