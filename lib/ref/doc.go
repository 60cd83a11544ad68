// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated value types for Matrix identifiers:
// room IDs, room aliases, user IDs, event IDs, and event types.
//
// Identifiers arriving from the outside world (Matrix API responses,
// configuration files, command arguments) are parsed into these types at
// the boundary. Once constructed, a value is structurally valid: a
// [RoomAlias] always has the form "#localpart:server" with both parts
// non-empty, a [UserID] always has "@localpart:server", and so on. Code
// past the boundary never re-validates.
//
// All wrapper types are immutable values whose zero value is not valid;
// use IsZero to check. They implement encoding.TextMarshaler and
// TextUnmarshaler so encoding/json validates them automatically during
// deserialization of API responses.
//
// Alias syntax errors are deliberately specific — empty alias, missing
// '#' sigil, missing ':server' separator, empty localpart, empty server —
// because the bot reports each violation to the user with a distinct
// message.
package ref
