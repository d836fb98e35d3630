// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main TUI shell: the Bubble Tea model that owns
// the transcript viewport, the input line, command dispatch, and the
// request lifecycle against the filings backend.
//
// The shell is a two-state machine. It is Idle until a question is submitted;
// the user message is appended optimistically and the shell enters Sending,
// during which further submissions are rejected. The backend reply (answer or
// failure report) is appended and the shell returns to Idle. Slash commands
// never leave Idle.
package chat
