// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat sessions to a local SQLite database.
//
// The database lives at ~/.magchat/sessions.db by default. SQLite is opened
// with a single connection and WAL journaling; writes are serialized through
// transactions so a crash never leaves a half-saved session.
package storage
