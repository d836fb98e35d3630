// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat shell.
//
// Input starting with "/" is parsed into a command and arguments, validated
// against the registered definitions, and dispatched as a Bubble Tea message
// the shell's update loop consumes. Everything else is treated as a question
// for the backend.
//
// # Key Types
//
//   - Registry: Holds command definitions with aliases and categories
//   - Parser: Tokenizes input, respecting quoted arguments
//   - Execute: Parse + validate + dispatch in one call
package commands
