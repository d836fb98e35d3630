// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessageDefaults(t *testing.T) {
	msg := NewUserMessage("hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, KindNormal, msg.Kind)
	assert.Equal(t, "hello", msg.Content)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
	assert.False(t, msg.IsError())
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("backend unreachable")

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, KindError, msg.Kind)
	assert.True(t, msg.IsError())
}

func TestMessagePreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short", "hi", 10, "hi"},
		{"exact", "12345", 5, "12345"},
		{"truncated", "hello world", 8, "hello..."},
		{"unicode", "héllo wörld", 8, "héllo..."},
		{"tiny max", "hello", 2, "he"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewUserMessage(tt.content)
			assert.Equal(t, tt.want, msg.Preview(tt.maxLen))
		})
	}
}

func TestCitationLabel(t *testing.T) {
	c := Citation{Ticker: "AAPL", FormType: "10-K", Year: 2024}
	assert.Equal(t, "AAPL 10-K 2024", c.Label())

	c = Citation{Ticker: "MSFT"}
	assert.Equal(t, "MSFT", c.Label())
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversationAppendOnly(t *testing.T) {
	conv := NewConversation()
	require.True(t, conv.IsEmpty())

	user := conv.AppendUser("What are Apple's main risk factors?")
	assistant := conv.Append(Message{
		Role:      RoleAssistant,
		Content:   "Supply chain concentration and regulatory risk.",
		Citations: []Citation{{Ticker: "AAPL", FormType: "10-K", Year: 2024}},
		CacheHit:  true,
	})

	require.Equal(t, 2, conv.Len())

	msgs := conv.Messages()
	assert.Equal(t, user.ID, msgs[0].ID)
	assert.Equal(t, assistant.ID, msgs[1].ID)
	assert.True(t, msgs[1].CacheHit)
	require.Len(t, msgs[1].Citations, 1)

	// Mutating the returned slice must not touch the log.
	msgs[0].Content = "tampered"
	fresh := conv.Messages()
	assert.Equal(t, "What are Apple's main risk factors?", fresh[0].Content)
}

func TestConversationLogMonotonic(t *testing.T) {
	conv := NewConversation()

	var lengths []int
	for i := 0; i < 5; i++ {
		conv.AppendUser("question")
		conv.AppendError("Error: boom")
		lengths = append(lengths, conv.Len())
	}

	for i := 1; i < len(lengths); i++ {
		assert.Greater(t, lengths[i], lengths[i-1])
	}
	assert.Equal(t, 10, conv.Len())
}

func TestConversationTitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	assert.Equal(t, "New conversation", conv.GetTitle())

	conv.AppendUser("Compare revenue growth across the group")
	assert.Equal(t, "Compare revenue growth across the group", conv.GetTitle())

	// Title sticks once set.
	conv.AppendUser("something else")
	assert.Equal(t, "Compare revenue growth across the group", conv.GetTitle())
}

func TestRestoreConversation(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msgs := []Message{
		NewUserMessage("q"),
		NewAssistantMessage("a"),
	}

	conv := RestoreConversation("conv_x", "title", created, created, msgs)
	assert.Equal(t, "conv_x", conv.ID)
	assert.Equal(t, 2, conv.Len())

	// Restore copies; the caller's slice is independent.
	msgs[0].Content = "tampered"
	assert.Equal(t, "q", conv.Messages()[0].Content)
}

func TestConversationLast(t *testing.T) {
	conv := NewConversation()
	_, ok := conv.Last()
	assert.False(t, ok)

	conv.AppendUser("first")
	conv.AppendAssistant("second")

	last, ok := conv.Last()
	require.True(t, ok)
	assert.Equal(t, "second", last.Content)

	user, ok := conv.LastUser()
	require.True(t, ok)
	assert.Equal(t, "first", user.Content)
}

// =============================================================================
// SELECTION TESTS
// =============================================================================

func TestSelectionSingleSelectReplaces(t *testing.T) {
	s := NewSelection()

	for _, ticker := range []string{"AAPL", "MSFT", "NVDA", "aapl"} {
		s.Select(ticker)
		assert.LessOrEqual(t, s.Len(), 1, "single-select must hold at most one ticker")
	}
	assert.Equal(t, "AAPL", s.Primary())
}

func TestSelectionMultiSelectToggles(t *testing.T) {
	s := NewSelection()
	s.SetMultiSelect(true)

	s.Select("AAPL")
	s.Select("MSFT")
	s.Select("NVDA")
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, s.Tickers())

	// Toggling an existing member removes it, preserving order of the rest.
	s.Select("MSFT")
	assert.Equal(t, []string{"AAPL", "NVDA"}, s.Tickers())

	s.Select("MSFT")
	assert.Equal(t, []string{"AAPL", "NVDA", "MSFT"}, s.Tickers())
}

func TestSelectionCompareModeDerivation(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.IsCompareMode())

	s.Select("AAPL")
	assert.False(t, s.IsCompareMode(), "single-select never compares")

	s.SetMultiSelect(true)
	assert.False(t, s.IsCompareMode(), "one ticker is not enough")

	s.Select("MSFT")
	assert.True(t, s.IsCompareMode())

	// Switching multi-select off leaves the selection but disables compare.
	s.SetMultiSelect(false)
	assert.False(t, s.IsCompareMode())
	assert.Equal(t, 2, s.Len(), "over-populated selection is kept")
	assert.Equal(t, "AAPL", s.Primary())
}

func TestSelectionRestore(t *testing.T) {
	s := RestoreSelection([]string{"aapl", "MSFT", "AAPL", ""}, true)
	assert.Equal(t, []string{"AAPL", "MSFT"}, s.Tickers())
	assert.True(t, s.IsCompareMode())
}

func TestIsMAG7(t *testing.T) {
	for _, ticker := range MAG7 {
		assert.True(t, IsMAG7(ticker))
	}
	assert.True(t, IsMAG7(" aapl "))
	assert.False(t, IsMAG7("IBM"))
}

// =============================================================================
// REQUEST OPTIONS TESTS
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	require.NoError(t, o.Validate())
	assert.Equal(t, ProviderOpenAI, o.Provider)
	assert.Equal(t, SearchVector, o.SearchMode)
	assert.Equal(t, "both", o.Sources)
	assert.Equal(t, "builtin", o.RerankerModel)
}

func TestOptionsValidate(t *testing.T) {
	o := DefaultOptions()
	o.Provider = "gemini"
	assert.Error(t, o.Validate())

	o = DefaultOptions()
	o.SearchMode = "keyword"
	assert.Error(t, o.Validate())
}

func TestOptionsSummary(t *testing.T) {
	o := DefaultOptions()
	o.Rerank = true
	o.SectionBoost = true

	assert.Equal(t,
		"rerank=on, rewrite=off, cache=off, section_boost=on, reranker=builtin",
		o.Summary())
}
