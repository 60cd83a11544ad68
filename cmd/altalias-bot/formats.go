// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/altalias-project/altalias/lib/aliasrule"
	"github.com/altalias-project/altalias/lib/botconfig"
	"github.com/altalias-project/altalias/lib/ref"
	"github.com/altalias-project/altalias/lib/schema"
	"github.com/altalias-project/altalias/messaging"
)

// handleAllow implements "allow <regex>": add an allow-list pattern to
// this room and persist it.
//
// Authorization: configured admins may always manage rules. Anyone
// else needs a power level at or above what the room requires for
// editing m.room.canonical_alias, the state this bot writes on their
// behalf.
//
// The pattern is compiled strictly. An admin typing a broken pattern
// gets the compile error back instead of a silently useless rule.
func (b *Bot) handleAllow(ctx context.Context, snapshot *botconfig.Snapshot, roomID ref.RoomID, event messaging.Event, rawPattern string) {
	pattern := strings.TrimSpace(rawPattern)
	if pattern == "" {
		b.replyText(ctx, roomID, event.EventID, "Usage: !"+snapshot.Command()+" allow <regex>")
		return
	}

	if !snapshot.IsAdmin(event.Sender) {
		allowed, ok := b.senderMayManageAliases(ctx, roomID, event)
		if !ok {
			return
		}
		if !allowed {
			b.replyText(ctx, roomID, event.EventID, "You don't have the permission to manage aliases in this room")
			return
		}
	}

	// Compile first so the sender gets the compile error for a broken
	// pattern; an AddFormat failure after that is a persistence
	// problem only the operator can fix.
	if _, err := aliasrule.Compile(pattern); err != nil {
		b.replyText(ctx, roomID, event.EventID, fmt.Sprintf("That is not a valid regular expression: %v", err))
		return
	}
	if _, err := b.store.AddFormat(roomID, pattern); err != nil {
		b.logger.Error("failed to persist alias format",
			"room_id", roomID, "pattern", pattern, "error", err)
		b.replyText(ctx, roomID, event.EventID, "Failed to save the new alias format (see logs for more details)")
		return
	}

	b.logger.Info("added alias format",
		"room_id", roomID,
		"pattern", pattern,
		"sender", event.Sender,
	)
	b.reply(ctx, roomID, event.EventID, messaging.NewHTMLNotice(
		fmt.Sprintf("Added `%s` as an allowed alias format", pattern),
		fmt.Sprintf("Added <code>%s</code> as an allowed alias format", html.EscapeString(pattern)),
	))
}

// senderMayManageAliases checks the sender's power level against the
// room's requirement for editing m.room.canonical_alias. ok=false
// means the check itself failed and a reply was already sent.
func (b *Bot) senderMayManageAliases(ctx context.Context, roomID ref.RoomID, event messaging.Event) (allowed, ok bool) {
	levels, err := messaging.GetState[schema.PowerLevels](
		ctx, b.session, roomID, schema.MatrixEventTypePowerLevels, "")
	if err != nil {
		b.logger.Error("failed to get room power levels",
			"room_id", roomID, "error", err)
		b.replyText(ctx, roomID, event.EventID, "Failed to check your permission to manage aliases")
		return false, false
	}
	return levels.CanSendStateEvent(event.Sender, schema.MatrixEventTypeCanonicalAlias), true
}

// handleAllowed implements "allowed": show the room's alias rules.
func (b *Bot) handleAllowed(ctx context.Context, snapshot *botconfig.Snapshot, roomID ref.RoomID, event messaging.Event) {
	rules := snapshot.Rules(roomID)
	if rules == nil {
		b.replyText(ctx, roomID, event.EventID,
			"This room does not have special alias rules. Aliases with the same "+
				"localpart as any of the existing aliases can be published.")
		return
	}

	patterns := rules.Patterns()
	var items, plain strings.Builder
	for _, pattern := range patterns {
		fmt.Fprintf(&items, "<li><code>%s</code></li>", html.EscapeString(pattern))
		fmt.Fprintf(&plain, "\n- %s", pattern)
	}
	b.reply(ctx, roomID, event.EventID, messaging.NewHTMLNotice(
		"This room allows aliases matching the following regular expressions:"+plain.String(),
		"<p>This room allows aliases matching the following regular expressions:</p>"+
			fmt.Sprintf("<ul>%s</ul>", items.String()),
	))
}
