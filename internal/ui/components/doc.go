// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable visual pieces of the magchat TUI:
// the status bar, the ticker bar, the message renderer, the thinking
// indicator, and the welcome screen. Components are pure view code; they hold
// no Bubble Tea state of their own.
package components
