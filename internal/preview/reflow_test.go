// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripWhitespace removes every whitespace character for content comparison.
var whitespaceRe = regexp.MustCompile(`\s+`)

func stripWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}

// corpus covers the input shapes the heuristic has to handle.
var corpus = []struct {
	name string
	text string
}{
	{"empty", ""},
	{"short line", "Revenue grew 12% year over year."},
	{"already formatted", "Line one is short.\nLine two is also short.\n"},
	{"crlf formatted", "Line one.\r\nLine two.\r\n"},
	{"single blob", strings.Repeat("The company faces supply chain risk. ", 40) + "Management monitors exposure."},
	{"item headers", "Overview text here. Item 1. Business description follows. More prose. Item 7A. Quantitative disclosures about market risk. End."},
	{"long token", strings.Repeat("x", 300)},
	{"long line with spaces", strings.Repeat("word ", 60) + "end"},
	{"mixed punctuation", "Was it material? Yes; management said so! The board agreed. (See note 12.)"},
	{"excess blank lines", "para one\n\n\n\n\npara two"},
	{"unicode", strings.Repeat("naïve café résumé ", 20) + "fin."},
}

// =============================================================================
// PROPERTY TESTS
// =============================================================================

func TestReflowIdempotent(t *testing.T) {
	for _, tc := range corpus {
		t.Run(tc.name, func(t *testing.T) {
			once := Reflow(tc.text)
			twice := Reflow(once)
			assert.Equal(t, once, twice, "reflow(reflow(T)) must equal reflow(T)")
		})
	}
}

func TestReflowPreservesContent(t *testing.T) {
	for _, tc := range corpus {
		t.Run(tc.name, func(t *testing.T) {
			got := Reflow(tc.text)
			assert.Equal(t, stripWhitespace(tc.text), stripWhitespace(got),
				"reflow may only change whitespace")
		})
	}
}

// =============================================================================
// BEHAVIOR TESTS
// =============================================================================

func TestReflowShortCircuitsWellFormattedText(t *testing.T) {
	text := "First line of a filing.\nSecond line with detail.\nThird."
	assert.Equal(t, text, Reflow(text), "text with short lines must be returned unchanged")
}

func TestReflowNormalizesCRLF(t *testing.T) {
	text := "alpha\r\nbeta\r\n"
	assert.Equal(t, "alpha\nbeta\n", Reflow(text))
}

func TestReflowBreaksSentences(t *testing.T) {
	text := "Revenue increased. Costs decreased. Margins expanded."
	got := Reflow(text)
	assert.Equal(t, "Revenue increased.\nCosts decreased.\nMargins expanded.", got)
}

func TestReflowBreaksBeforeItemHeaders(t *testing.T) {
	text := "intro prose Item 1. Business overview and more prose Item 7A. Market risk"
	got := Reflow(text)

	lines := strings.Split(got, "\n")
	var headerLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, "Item ") {
			headerLines = append(headerLines, line)
		}
	}
	require.Len(t, headerLines, 2, "each Item header must start its own line:\n%s", got)
	assert.Contains(t, got, "\n\nItem 1.")
	assert.Contains(t, got, "\n\nItem 7A.")
}

func TestReflowWrapsLongLines(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor ", 30) // ~540 chars, no terminators
	got := Reflow(text)

	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 120, "wrapped lines must stay within the hard limit: %q", line)
		assert.Equal(t, strings.TrimSpace(line), line, "chunks must be trimmed")
	}
}

func TestReflowCollapsesBlankRuns(t *testing.T) {
	// Long unbroken lines around a 4-newline run so the short-circuit does
	// not trigger.
	long := strings.Repeat("a b c d e f g h i j ", 20)
	text := long + "\n\n\n\n" + long
	got := Reflow(text)
	assert.NotContains(t, got, "\n\n\n")
}

func TestReflowLeavesLongTokensIntact(t *testing.T) {
	token := strings.Repeat("x", 300)
	assert.Equal(t, token, Reflow(token), "a token with no whitespace cannot be wrapped")
}

func TestReflowScenario(t *testing.T) {
	blob := "The Company designs and sells consumer electronics. Demand may fluctuate; results could suffer! " +
		"Item 1A. Risk Factors The business faces intense competition. (See the discussion below.) " +
		strings.Repeat("Additional risk detail continues without any break at all ", 6)

	got := Reflow(blob)

	// Section header separated by a blank line.
	assert.Contains(t, got, "\n\nItem 1A.")
	// Sentence boundaries became line breaks.
	assert.Contains(t, got, "consumer electronics.\nDemand")
	// Idempotent on its own output.
	assert.Equal(t, got, Reflow(got))
	// No characters lost.
	assert.Equal(t, stripWhitespace(blob), stripWhitespace(got))
}
