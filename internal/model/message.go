// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Analyst"
	default:
		return string(r)
	}
}

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind distinguishes ordinary answers from failure reports. A failed backend
// call is recorded as an assistant message with KindError so callers can tell
// it apart from a successful call whose answer merely talks about errors.
type Kind string

const (
	KindNormal Kind = "normal"
	KindError  Kind = "error"
)

// =============================================================================
// CITATION TYPE
// =============================================================================

// Citation points at a source document chunk backing an answer.
// Citations are read-only and sourced entirely from backend responses.
type Citation struct {
	Ticker     string `json:"ticker"`
	FormType   string `json:"form_type,omitempty"`
	Year       int    `json:"year,omitempty"`
	ChunkIndex int    `json:"chunk_index,omitempty"`
	Source     string `json:"source,omitempty"` // "sec" or "user"
}

// Label returns a short display label like "AAPL 10-K 2024".
func (c Citation) Label() string {
	parts := []string{c.Ticker}
	if c.FormType != "" {
		parts = append(parts, c.FormType)
	}
	if c.Year > 0 {
		parts = append(parts, itoa(c.Year))
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a conversation. Messages are immutable once
// appended to a Conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Answer metadata (assistant messages)
	Citations    []Citation `json:"citations,omitempty"`
	FlagsSummary string     `json:"flags_summary,omitempty"`
	CacheHit     bool       `json:"cache_hit,omitempty"`

	// Compare metadata
	IsCompare      bool     `json:"is_compare,omitempty"`
	CompareTickers []string `json:"compare_tickers,omitempty"`
}

// NewMessage creates a new message with a generated ID and current timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        generateMessageID(),
		Role:      role,
		Kind:      KindNormal,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewErrorMessage creates an assistant message carrying a failure report.
func NewErrorMessage(content string) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Kind = KindError
	return msg
}

// IsError reports whether the message records a failed call.
func (m Message) IsError() bool {
	return m.Kind == KindError
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	return "msg_" + uuid.NewString()
}

// itoa avoids pulling strconv into the hot display path for small years.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
