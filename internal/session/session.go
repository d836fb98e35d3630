// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/storage"
)

// Session bundles everything a chat sitting carries: the conversation log,
// the ticker selection, and the active request options. It is the unit of
// persistence; Snapshot and Restore form the serialization seam between the
// live state and the storage layer.
type Session struct {
	Conversation *model.Conversation
	Selection    *model.Selection
	Options      model.RequestOptions
}

// New creates a fresh session with the given initial options.
func New(opts model.RequestOptions) *Session {
	return &Session{
		Conversation: model.NewConversation(),
		Selection:    model.NewSelection(),
		Options:      opts,
	}
}

// ID returns the session's identity, which is the conversation ID.
func (s *Session) ID() string {
	return s.Conversation.ID
}

// Snapshot serializes the session into a storage record.
func (s *Session) Snapshot() *storage.SessionRecord {
	return &storage.SessionRecord{
		ID:          s.Conversation.ID,
		Title:       s.Conversation.GetTitle(),
		Tickers:     s.Selection.Tickers(),
		MultiSelect: s.Selection.MultiSelect(),
		Options:     s.Options,
		CreatedAt:   s.Conversation.CreatedAt,
		Messages:    s.Conversation.Messages(),
	}
}

// Restore rebuilds a live session from a storage record.
func Restore(rec *storage.SessionRecord) *Session {
	conv := model.RestoreConversation(rec.ID, rec.Title, rec.CreatedAt, rec.UpdatedAt, rec.Messages)
	sel := model.RestoreSelection(rec.Tickers, rec.MultiSelect)

	opts := rec.Options
	if opts.Validate() != nil {
		opts = model.DefaultOptions()
	}

	return &Session{
		Conversation: conv,
		Selection:    sel,
		Options:      opts,
	}
}
