// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"github.com/altalias-project/altalias/lib/botconfig"
	"github.com/altalias-project/altalias/lib/clock"
	"github.com/altalias-project/altalias/lib/ref"
	"github.com/altalias-project/altalias/lib/service"
	"github.com/altalias-project/altalias/messaging"
)

// Bot holds the bot's runtime dependencies. Command handlers hang off
// it; each handler works against one config snapshot taken at message
// dispatch.
type Bot struct {
	session messaging.Session
	store   *botconfig.Store
	clock   clock.Clock
	logger  *slog.Logger
}

// NewBot creates the bot around an authenticated session and a loaded
// config store.
func NewBot(session messaging.Session, store *botconfig.Store, clk clock.Clock, logger *slog.Logger) *Bot {
	return &Bot{
		session: session,
		store:   store,
		clock:   clk,
		logger:  logger,
	}
}

// handleSync processes one incremental /sync response: accept any new
// invites, then scan each joined room's timeline for command messages.
func (b *Bot) handleSync(ctx context.Context, response *messaging.SyncResponse) {
	if len(response.Rooms.Invite) > 0 {
		service.AcceptInvites(ctx, b.session, response.Rooms.Invite, b.logger)
	}
	for roomID, room := range response.Rooms.Join {
		b.processMessages(ctx, roomID, room.Timeline.Events)
	}
}

// reply posts content as a rich reply to the triggering event.
func (b *Bot) reply(ctx context.Context, roomID ref.RoomID, inReplyTo ref.EventID, content messaging.MessageContent) {
	if _, err := b.session.SendMessage(ctx, roomID, content.AsReplyTo(inReplyTo)); err != nil {
		b.logger.Error("failed to send reply",
			"room_id", roomID,
			"in_reply_to", inReplyTo,
			"error", err)
	}
}

// replyText posts a plain-text notice reply.
func (b *Bot) replyText(ctx context.Context, roomID ref.RoomID, inReplyTo ref.EventID, text string) {
	b.reply(ctx, roomID, inReplyTo, messaging.NewNotice(text))
}
