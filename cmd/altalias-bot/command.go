// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/altalias-project/altalias/lib/botconfig"
	"github.com/altalias-project/altalias/lib/ref"
	"github.com/altalias-project/altalias/lib/schema"
	"github.com/altalias-project/altalias/messaging"
)

// commandInvocation is a parsed "!name subcommand argument" message.
// Argument is the raw remainder of the body after the subcommand, so
// patterns containing spaces survive intact.
type commandInvocation struct {
	Name       string
	Subcommand string
	Argument   string
}

// parseCommand extracts a command invocation from a message body.
// Returns ok=false for bodies that are not bot commands at all (no
// leading '!'). Whether Name is one of the configured command names is
// the caller's check, against its config snapshot.
func parseCommand(body string) (commandInvocation, bool) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "!") {
		return commandInvocation{}, false
	}

	rest := strings.TrimPrefix(trimmed, "!")
	name, rest := splitWord(rest)
	if name == "" {
		return commandInvocation{}, false
	}
	subcommand, argument := splitWord(rest)

	return commandInvocation{
		Name:       name,
		Subcommand: subcommand,
		Argument:   argument,
	}, true
}

// splitWord splits off the first whitespace-delimited word and returns
// it with the trimmed remainder.
func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// processMessages scans timeline events for command messages and
// dispatches them. Only m.text messages from other users are
// considered; the bot's own messages and other bots' notices are
// skipped so replies cannot feed back into dispatch.
func (b *Bot) processMessages(ctx context.Context, roomID ref.RoomID, events []messaging.Event) {
	for _, event := range events {
		if event.Type != schema.MatrixEventTypeMessage {
			continue
		}
		msgtype, _ := event.Content["msgtype"].(string)
		if msgtype != schema.MsgTypeText {
			continue
		}
		if event.Sender == b.session.UserID() {
			continue
		}

		body, _ := event.Content["body"].(string)
		invocation, ok := parseCommand(body)
		if !ok {
			continue
		}

		// One snapshot per message: the handler's rule evaluation,
		// admin check, and command-name match all see the same config
		// version even if a reload lands mid-handler.
		snapshot := b.store.Current()
		if !snapshot.IsCommand(invocation.Name) {
			continue
		}

		b.logger.Info("processing command",
			"room_id", roomID,
			"event_id", event.EventID,
			"sender", event.Sender,
			"subcommand", invocation.Subcommand,
		)

		switch invocation.Subcommand {
		case "publish", "add":
			b.handlePublish(ctx, snapshot, roomID, event, invocation.Argument)
		case "allow":
			b.handleAllow(ctx, snapshot, roomID, event, invocation.Argument)
		case "allowed":
			b.handleAllowed(ctx, snapshot, roomID, event)
		default:
			b.replyText(ctx, roomID, event.EventID, helpText(snapshot))
		}
	}
}

func helpText(snapshot *botconfig.Snapshot) string {
	command := snapshot.Command()
	return fmt.Sprintf("Manage alternate aliases.\n"+
		"!%s publish <alias> - Publish an alias from your server in the alternate aliases of this room\n"+
		"!%s allow <regex> - Add a regex for matching allowed alternate aliases\n"+
		"!%s allowed - View allowed alternate alias formats",
		command, command, command)
}
