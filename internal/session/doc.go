// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session bundles conversation, selection, and request options into
// a persistable session, and manages the active one.
//
// # Key Types
//
//   - Session: Live chat state with a Snapshot/Restore serialization seam
//   - Manager: Tracks the active session, dirty state, and store access
//
// # Usage
//
// Start a fresh session and persist it:
//
//	mgr := session.NewManager(store, logger)
//	mgr.Start(session.New(model.DefaultOptions()))
//	// ... append messages ...
//	mgr.MarkDirty()
//	mgr.FlushIfDirty()
//
// Resume a stored session:
//
//	sess, err := mgr.Load(id)
package session
