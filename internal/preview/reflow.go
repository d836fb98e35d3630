// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package preview reformats SEC filing text for a preformatted viewer.
//
// Filings fetched from EDGAR sometimes arrive as one enormous line with no
// breaks. Reflow is a best-effort, deterministic heuristic that restores
// readable line structure without losing or inventing a single non-whitespace
// character. It is idempotent: applying it to already well-formatted text
// returns the input unchanged.
package preview

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// wellFormattedWidth: if any existing line is shorter than this, the
	// text is assumed to already carry intentional line structure.
	wellFormattedWidth = 160

	// longLineWidth is the threshold above which a line gets hard-wrapped.
	longLineWidth = 120

	// wrapWidth is the target chunk size when hard-wrapping.
	wrapWidth = 110
)

var (
	// Sentence terminator followed by whitespace and a capital letter or
	// open parenthesis.
	sentenceBreakRe = regexp.MustCompile(`([.!;?])[ \t]+([A-Z(])`)

	// SEC section headers like "Item 1.", "Item 7A.", "ITEM 1a.".
	itemHeaderRe = regexp.MustCompile(`(?i)(^|\s)(Item[ \t]+\d+[A-Za-z]?\.)`)

	// Three or more consecutive newlines.
	excessNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

// Reflow reformats filing text that arrived with insufficient line breaks.
//
// Text that already contains newlines with at least one line under 160
// characters is returned unchanged. Otherwise sentence boundaries and
// "Item N." section headers become line breaks, overlong lines are
// hard-wrapped at whitespace, and runs of blank lines are collapsed.
func Reflow(text string) string {
	// Step 1: normalize line endings.
	text = strings.ReplaceAll(text, "\r\n", "\n")

	// Step 2: short-circuit for text that already has usable structure.
	if strings.Contains(text, "\n") && hasShortLine(text) {
		return text
	}

	// Step 3: break after sentence terminators.
	text = sentenceBreakRe.ReplaceAllString(text, "$1\n$2")

	// Step 4: blank-line-prefixed break before section headers.
	text = itemHeaderRe.ReplaceAllString(text, "\n\n$2")

	// Step 5: hard-wrap remaining overlong lines.
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		if len(line) > longLineWidth {
			out = append(out, wrapLine(line, wrapWidth)...)
		} else {
			out = append(out, line)
		}
	}
	text = strings.Join(out, "\n")

	// Step 6: collapse 3+ newlines into exactly 2.
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")

	return text
}

// hasShortLine reports whether any line is under wellFormattedWidth.
func hasShortLine(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if len(line) < wellFormattedWidth {
			return true
		}
	}
	return false
}

// wrapLine splits a line into trimmed chunks of up to width characters,
// breaking at whitespace. A chunk with no whitespace inside the window
// extends to the next whitespace boundary rather than splitting a token.
func wrapLine(line string, width int) []string {
	var chunks []string
	rest := line
	for len(rest) > width {
		cut := lastSpaceWithin(rest, width)
		if cut <= 0 {
			// No break point inside the window: extend to the next one.
			cut = nextSpaceAfter(rest, width)
			if cut < 0 {
				break
			}
		}
		chunk := strings.TrimSpace(rest[:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		rest = strings.TrimLeft(rest[cut:], " \t")
	}
	if trimmed := strings.TrimSpace(rest); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}

// lastSpaceWithin returns the index of the last whitespace byte at or before
// width, or -1 if there is none.
func lastSpaceWithin(s string, width int) int {
	for i := width; i >= 0; i-- {
		if unicode.IsSpace(rune(s[i])) {
			return i
		}
	}
	return -1
}

// nextSpaceAfter returns the index of the first whitespace byte after width,
// or -1 if there is none.
func nextSpaceAfter(s string, width int) int {
	for i := width + 1; i < len(s); i++ {
		if unicode.IsSpace(rune(s[i])) {
			return i
		}
	}
	return -1
}
