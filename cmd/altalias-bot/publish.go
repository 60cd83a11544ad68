// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"strings"

	"github.com/altalias-project/altalias/lib/aliasrule"
	"github.com/altalias-project/altalias/lib/botconfig"
	"github.com/altalias-project/altalias/lib/ref"
	"github.com/altalias-project/altalias/lib/schema"
	"github.com/altalias-project/altalias/messaging"
)

// handlePublish implements "publish <alias>" (alias: "add"): validate
// the alias, check it against the room's rules, and append it to the
// room's m.room.canonical_alias alternates.
//
// Every rejection is a reply to the sender. Error replies distinguish
// what the sender can fix (bad alias, wrong room, not allowed) from
// homeserver failures, where the server's own message is surfaced when
// available.
func (b *Bot) handlePublish(ctx context.Context, snapshot *botconfig.Snapshot, roomID ref.RoomID, event messaging.Event, rawAlias string) {
	alias, err := ref.ParseRoomAlias(strings.TrimSpace(rawAlias))
	if err != nil {
		b.replyText(ctx, roomID, event.EventID, "That is not a valid room alias")
		return
	}

	if snapshot.RequireLowercase() && alias.Localpart() != strings.ToLower(alias.Localpart()) {
		b.replyText(ctx, roomID, event.EventID, "That alias localpart is not in lowercase")
		return
	}

	// The alias must already exist and point at this room. The bot
	// publishes aliases, it does not create them.
	resolved, err := b.session.ResolveAlias(ctx, alias)
	if err != nil {
		if messaging.IsMatrixError(err, messaging.ErrCodeNotFound) {
			b.replyText(ctx, roomID, event.EventID, "That alias does not exist")
		} else {
			b.logger.Error("failed to resolve alias",
				"alias", alias, "room_id", roomID, "error", err)
			b.replyText(ctx, roomID, event.EventID, "Failed to get alias info")
		}
		return
	}
	if resolved != roomID {
		b.replyText(ctx, roomID, event.EventID, "That alias does not point to this room")
		return
	}

	existing, ok := b.currentAliases(ctx, roomID, event)
	if !ok {
		return
	}

	if existing.HasAltAlias(alias) {
		b.replyText(ctx, roomID, event.EventID, "That alias is already published in this room")
		return
	}

	if !aliasrule.Allowed(snapshot.Rules(roomID), alias, existing.Aliases()) {
		b.replyText(ctx, roomID, event.EventID, "That alias is not allowed in this room")
		return
	}

	updated := existing.WithAltAlias(alias)
	if _, err := b.session.SendStateEvent(ctx, roomID, schema.MatrixEventTypeCanonicalAlias, "", updated); err != nil {
		if messaging.IsMatrixError(err, messaging.ErrCodeForbidden) {
			b.replyText(ctx, roomID, event.EventID, "I don't have the permission to publish aliases :(")
		} else if matrixErr := messaging.AsMatrixError(err); matrixErr != nil {
			b.replyText(ctx, roomID, event.EventID, "Failed to publish alias: "+matrixErr.Message)
		} else {
			b.logger.Error("failed to publish alias",
				"alias", alias, "room_id", roomID, "error", err)
			b.replyText(ctx, roomID, event.EventID, "Failed to publish alias (see logs for more details)")
		}
		return
	}

	b.logger.Info("published alternate alias",
		"alias", alias,
		"room_id", roomID,
		"sender", event.Sender,
	)
}

// currentAliases reads the room's m.room.canonical_alias state. A
// missing event is an empty record, not an error: rooms without any
// published address are fine, the bot will create the record. Other
// failures are reported to the sender and ok=false is returned.
func (b *Bot) currentAliases(ctx context.Context, roomID ref.RoomID, event messaging.Event) (schema.CanonicalAliasContent, bool) {
	content, err := messaging.GetState[schema.CanonicalAliasContent](
		ctx, b.session, roomID, schema.MatrixEventTypeCanonicalAlias, "")
	if err == nil {
		return content, true
	}

	if messaging.IsMatrixError(err, messaging.ErrCodeNotFound) {
		return schema.CanonicalAliasContent{}, true
	}
	if matrixErr := messaging.AsMatrixError(err); matrixErr != nil {
		b.replyText(ctx, roomID, event.EventID, "Failed to get current aliases: "+matrixErr.Message)
		return schema.CanonicalAliasContent{}, false
	}
	b.logger.Error("failed to get canonical alias state",
		"room_id", roomID, "error", err)
	b.replyText(ctx, roomID, event.EventID, "Failed to get current aliases (see logs for more details)")
	return schema.CanonicalAliasContent{}, false
}
