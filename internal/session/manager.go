// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/magchat/magchat/internal/storage"
	"github.com/magchat/magchat/internal/util"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager coordinates the active session and its persistence. It marks the
// session dirty on every mutation and flushes on demand or via FlushIfDirty
// from the shell's tick loop.
type Manager struct {
	mu sync.Mutex

	store   *storage.Store
	current *Session
	dirty   bool
	log     *zap.Logger
}

// NewManager creates a manager around a store. A nil logger disables logging.
func NewManager(store *storage.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, log: log}
}

// Start installs a fresh or restored session as the active one.
func (m *Manager) Start(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	m.dirty = false
}

// Current returns the active session, or nil before Start.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// MarkDirty flags the active session as having unsaved changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = true
}

// Save persists the active session unconditionally.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

// FlushIfDirty persists the active session only if it has unsaved changes.
// Sessions with no messages are not written; an empty shell start should not
// litter the session list.
func (m *Manager) FlushIfDirty() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	if m.current == nil {
		return nil
	}
	if m.current.Conversation.Len() == 0 {
		return nil
	}
	if err := m.store.Save(m.current.Snapshot()); err != nil {
		m.log.Error("session save failed", zap.String("session_id", m.current.ID()), zap.Error(err))
		return err
	}
	m.dirty = false
	m.log.Debug("session saved", zap.String("session_id", m.current.ID()))
	return nil
}

// =============================================================================
// STORE PASSTHROUGH
// =============================================================================

// Load restores a stored session and installs it as the active one.
func (m *Manager) Load(id string) (*Session, error) {
	rec, err := m.store.Load(id)
	if err != nil {
		return nil, err
	}
	s := Restore(rec)
	m.Start(s)
	return s, nil
}

// List returns stored session metadata, most recent first.
func (m *Manager) List() ([]storage.SessionMeta, error) {
	return m.store.List()
}

// Search returns stored sessions matching the query.
func (m *Manager) Search(query string) ([]storage.SessionMeta, error) {
	return m.store.Search(query)
}

// Delete removes a stored session.
func (m *Manager) Delete(id string) error {
	return m.store.Delete(id)
}

// =============================================================================
// LIST FORMATTING
// =============================================================================

// FormatSessionList renders session metadata as a plain-text table.
func FormatSessionList(metas []storage.SessionMeta) string {
	if len(metas) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("------------------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 14) + " " +
		util.PadRight("Age", 5) + " " +
		util.PadRight("Tickers", 12) + " " +
		util.PadRight("Msgs", 5) + " Title\n")
	sb.WriteString("------------------------------------------------------------\n")

	for _, meta := range metas {
		sb.WriteString(util.PadRight(util.TruncateRunesNoEllipsis(meta.ID, 14), 14) + " " +
			util.PadRight(FormatSessionAge(meta.UpdatedAt), 5) + " " +
			util.PadRight(util.TruncateRunes(strings.Join(meta.Tickers, ","), 12), 12) + " " +
			util.PadRight(fmt.Sprintf("%d", meta.MessageCount), 5) + " " +
			util.TruncateWidth(meta.Title, 40) + "\n")
	}
	return sb.String()
}

// FormatSessionAge renders a compact relative age like "2h" or "3d".
func FormatSessionAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
