// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the Matrix event types and typed event content
// structures the bot reads and writes.
//
// The bot works exclusively with standard Matrix events: m.room.message
// for commands and replies, m.room.canonical_alias for the alias record
// it conditionally appends to, and m.room.power_levels for authorizing
// rule changes. Typed content structs ([CanonicalAliasContent],
// [PowerLevels]) are unmarshaled from the raw JSON returned by state
// event reads and, for the canonical alias, written back via state
// event sends.
package schema
