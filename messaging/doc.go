// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the subset of the Matrix client-server API
// the alias bot needs.
//
// [Client] is an unauthenticated Matrix client holding the homeserver
// URL and HTTP transport. Login and SessionFromToken return
// authenticated [*DirectSession] values; [Session] is the interface
// the bot's command handlers program against, so tests can substitute
// a fake homeserver session.
//
// The covered surface is messaging (send events with idempotent
// transaction IDs), state events (the m.room.canonical_alias and
// m.room.power_levels records the bot reads and writes), room alias
// resolution, incremental sync with long-polling, room joining, and
// identity verification (WhoAmI).
//
// Sessions are lightweight: a pointer to the parent Client plus an
// access token in mmap-backed secret.Buffer memory, locked against
// swap and excluded from core dumps. Callers must call Close to
// release the protected memory.
//
// All API errors are returned as [*MatrixError] with the standard
// Matrix error code (M_FORBIDDEN, M_NOT_FOUND, etc.) and HTTP status
// code; [IsMatrixError] tests for a specific code. Request URLs are
// built by string concatenation rather than url.URL to avoid
// double-encoding of path segments such as room aliases.
package messaging
