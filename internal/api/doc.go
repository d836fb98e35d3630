// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the SEC-filings RAG backend.
//
// The Client is the single boundary for all backend calls. Each endpoint
// enforces its own client-side timeout; a fired timeout surfaces as
// ErrTimeout, distinguishable from transport failures (ErrCannotConnect)
// and HTTP-level failures (*HTTPError), so callers can decide whether a
// retry makes sense. Only the filing-preview path retries automatically.
package api
