// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an append-only ordered message log. Entries are never
// edited or removed after Append; insertion order is display order.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	messages []Message
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RestoreConversation rebuilds a conversation from persisted state.
// The message slice is copied; the caller keeps ownership of its argument.
func RestoreConversation(id, title string, createdAt, updatedAt time.Time, messages []Message) *Conversation {
	c := &Conversation{
		ID:        id,
		Title:     title,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		messages:  make([]Message, len(messages)),
	}
	copy(c.messages, messages)
	return c
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the log and returns the stored copy.
// A zero ID or timestamp is filled in before appending.
func (c *Conversation) Append(msg Message) Message {
	if msg.ID == "" {
		msg.ID = generateMessageID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if msg.Kind == "" {
		msg.Kind = KindNormal
	}
	c.messages = append(c.messages, msg)
	c.UpdatedAt = msg.Timestamp
	c.updateTitle()
	return msg
}

// AppendUser creates and appends a user message.
func (c *Conversation) AppendUser(content string) Message {
	return c.Append(NewUserMessage(content))
}

// AppendAssistant creates and appends an assistant message.
func (c *Conversation) AppendAssistant(content string) Message {
	return c.Append(NewAssistantMessage(content))
}

// AppendError creates and appends an error-kind assistant message.
func (c *Conversation) AppendError(content string) Message {
	return c.Append(NewErrorMessage(content))
}

// Messages returns a copy of the message log in insertion order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastUser returns the most recent user message, if any.
func (c *Conversation) LastUser() (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleUser {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user message if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// SetTitle manually sets the conversation title.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New conversation"
}

// =============================================================================
// METADATA
// =============================================================================

// ConversationMeta holds lightweight metadata for listing.
type ConversationMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Preview      string    `json:"preview"`
}

// Meta returns metadata about the conversation.
func (c *Conversation) Meta() ConversationMeta {
	preview := ""
	if first, ok := c.firstUser(); ok {
		preview = first.Preview(80)
	}
	return ConversationMeta{
		ID:           c.ID,
		Title:        c.GetTitle(),
		MessageCount: len(c.messages),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Preview:      preview,
	}
}

func (c *Conversation) firstUser() (Message, bool) {
	for _, msg := range c.messages {
		if msg.Role == RoleUser {
			return msg, true
		}
	}
	return Message{}, false
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	return "conv_" + uuid.NewString()
}
