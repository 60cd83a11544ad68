// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"slices"

	"github.com/altalias-project/altalias/lib/ref"
)

// Standard Matrix event types the bot consumes and produces.
const (
	// MatrixEventTypeMessage is the timeline event type for room
	// messages. Commands arrive as m.text messages; the bot's replies
	// are m.notice messages.
	MatrixEventTypeMessage ref.EventType = "m.room.message"

	// MatrixEventTypeCanonicalAlias is the state event holding a
	// room's primary published address and its alternate aliases.
	// State key: "".
	MatrixEventTypeCanonicalAlias ref.EventType = "m.room.canonical_alias"

	// MatrixEventTypePowerLevels is the state event defining per-user
	// permission ranks and per-event-type required ranks.
	// State key: "".
	MatrixEventTypePowerLevels ref.EventType = "m.room.power_levels"

	// MatrixEventTypeMember is the membership state event. Only used
	// in sync filters to exclude membership noise.
	MatrixEventTypeMember ref.EventType = "m.room.member"
)

// Message msgtype values.
const (
	// MsgTypeText is the msgtype of ordinary user messages, including
	// the command messages the bot reacts to.
	MsgTypeText = "m.text"

	// MsgTypeNotice is the msgtype of the bot's replies. Notices are
	// the Matrix convention for automated responses: clients render
	// them dimmed and other bots ignore them, preventing reply loops.
	MsgTypeNotice = "m.notice"
)

// CanonicalAliasContent is the content of an m.room.canonical_alias
// state event: the room's primary published address plus its alternate
// aliases.
//
// The alias values are kept as raw strings, not ref.RoomAlias: this
// state is owned by the homeserver and other clients, and the record
// may contain entries this bot would consider malformed. The bot reads
// the record, conditionally appends one alternate alias, and writes it
// back. It never otherwise mutates existing entries, valid or not.
type CanonicalAliasContent struct {
	Alias      string   `json:"alias,omitempty"`
	AltAliases []string `json:"alt_aliases,omitempty"`
}

// Aliases returns the canonical alias (if set) followed by the
// alternate aliases, in published order.
func (c *CanonicalAliasContent) Aliases() []string {
	var all []string
	if c.Alias != "" {
		all = append(all, c.Alias)
	}
	return append(all, c.AltAliases...)
}

// HasAltAlias reports whether the alias is already published as an
// alternate alias of the room.
func (c *CanonicalAliasContent) HasAltAlias(alias ref.RoomAlias) bool {
	return slices.Contains(c.AltAliases, alias.String())
}

// WithAltAlias returns a copy of the record with the alias appended to
// the alternates. The receiver is not modified.
func (c *CanonicalAliasContent) WithAltAlias(alias ref.RoomAlias) CanonicalAliasContent {
	updated := CanonicalAliasContent{
		Alias:      c.Alias,
		AltAliases: make([]string, 0, len(c.AltAliases)+1),
	}
	updated.AltAliases = append(updated.AltAliases, c.AltAliases...)
	updated.AltAliases = append(updated.AltAliases, alias.String())
	return updated
}
