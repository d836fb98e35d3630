// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNonCommand(t *testing.T) {
	parser := NewParser(NewRegistry())
	result := parser.Parse("what was AAPL revenue in 2024?")
	assert.False(t, result.IsCommand)
	assert.Nil(t, result.Command)
}

func TestParseCommandWithArgs(t *testing.T) {
	parser := NewParser(NewRegistry())

	result := parser.Parse("/ticker aapl")
	require.True(t, result.IsCommand)
	require.NotNil(t, result.Command)
	assert.Equal(t, "/ticker", result.Command.Name)
	assert.Equal(t, []string{"aapl"}, result.Args)
	assert.Equal(t, "aapl", result.RawArgs)
}

func TestParseAlias(t *testing.T) {
	parser := NewParser(NewRegistry())

	result := parser.Parse("/t MSFT")
	require.NotNil(t, result.Command)
	assert.Equal(t, "/ticker", result.Command.Name)

	result = parser.Parse("/load conv_123")
	require.NotNil(t, result.Command)
	assert.Equal(t, "/resume", result.Command.Name)
}

func TestParseUnknownCommand(t *testing.T) {
	parser := NewParser(NewRegistry())
	result := parser.Parse("/bogus")
	assert.True(t, result.IsCommand)
	assert.Nil(t, result.Command)
	assert.Equal(t, "/bogus", result.CommandName)
}

func TestParseQuotedArgs(t *testing.T) {
	tokens := splitCommandLine(`/upload "annual report.pdf"`)
	assert.Equal(t, []string{"/upload", "annual report.pdf"}, tokens)

	tokens = splitCommandLine(`/sessions 'revenue drivers'`)
	assert.Equal(t, []string{"/sessions", "revenue drivers"}, tokens)
}

func TestValidateArgs(t *testing.T) {
	registry := NewRegistry()

	rerank := registry.Get("/rerank")
	require.NotNil(t, rerank)
	assert.Error(t, ValidateArgs(rerank, nil), "state is required")
	assert.NoError(t, ValidateArgs(rerank, []string{"on"}))
	assert.NoError(t, ValidateArgs(rerank, []string{"ON"}), "values are case-insensitive")
	assert.Error(t, ValidateArgs(rerank, []string{"maybe"}))

	ticker := registry.Get("/ticker")
	require.NotNil(t, ticker)
	assert.NoError(t, ValidateArgs(ticker, []string{"nvda"}))
	assert.Error(t, ValidateArgs(ticker, []string{"IBM"}), "only MAG7 tickers allowed")
}

func TestExecuteDispatchesMessages(t *testing.T) {
	parser := NewParser(NewRegistry())

	cmd := Execute(parser, "/ticker TSLA")
	require.NotNil(t, cmd)
	assert.Equal(t, SelectTickerMsg{Ticker: "TSLA"}, cmd())

	cmd = Execute(parser, "/rerank off")
	require.NotNil(t, cmd)
	assert.Equal(t, SetFlagMsg{Flag: "rerank", On: false}, cmd())

	cmd = Execute(parser, "/compare on")
	require.NotNil(t, cmd)
	assert.Equal(t, ToggleCompareMsg{Toggle: false, On: true}, cmd())

	cmd = Execute(parser, "/compare")
	require.NotNil(t, cmd)
	assert.Equal(t, ToggleCompareMsg{Toggle: true}, cmd())

	cmd = Execute(parser, "/export html")
	require.NotNil(t, cmd)
	assert.Equal(t, ExportConversationMsg{Format: "html"}, cmd())

	cmd = Execute(parser, "/preview")
	require.NotNil(t, cmd)
	assert.Equal(t, PreviewFilingMsg{Format: "markdown"}, cmd())
}

func TestExecuteUnknownAndInvalid(t *testing.T) {
	parser := NewParser(NewRegistry())

	cmd := Execute(parser, "/nope")
	require.NotNil(t, cmd)
	assert.Equal(t, UnknownCommandMsg{Name: "/nope"}, cmd())

	cmd = Execute(parser, "/provider gemini")
	require.NotNil(t, cmd)
	msg, ok := cmd().(CommandErrorMsg)
	require.True(t, ok)
	assert.Contains(t, msg.Err.Error(), "invalid value")

	assert.Nil(t, Execute(parser, "plain question"))
}

func TestComplete(t *testing.T) {
	registry := NewRegistry()

	matches := registry.Complete("/se")
	assert.Contains(t, matches, "/sessions")

	matches = registry.Complete("/re")
	assert.Contains(t, matches, "/rerank")
	assert.Contains(t, matches, "/reranker")
	assert.Contains(t, matches, "/resume")
}

func TestByCategoryHidesNothingAndGroups(t *testing.T) {
	groups := NewRegistry().ByCategory()
	assert.NotEmpty(t, groups["Selection"])
	assert.NotEmpty(t, groups["Retrieval"])
	assert.NotEmpty(t, groups["Session"])
}
