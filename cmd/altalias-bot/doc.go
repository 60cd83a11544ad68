// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

// altalias-bot is a Matrix bot that lets room members publish
// alternate room aliases.
//
// Members invoke it with room messages:
//
//	!altalias publish #my-alias:example.org
//	!altalias allow #event-.*:example\.org
//	!altalias allowed
//
// publish adds an alias to the room's m.room.canonical_alias alternate
// list, after checking the alias resolves to the room and passes the
// room's allow rules. allow (admins and users who may edit the
// canonical alias) adds a regular expression to the room's allow-list
// and persists it to the config file. allowed shows the room's current
// rules.
//
// The bot runs against a YAML config file (see lib/botconfig) and a
// state directory holding session.json. First run uses --login to
// create the session file:
//
//	altalias-bot --login --username altalias --password-file - \
//	    --homeserver https://matrix.example.org --state-dir /var/lib/altalias
//
// After that the bot starts with just --config and --state-dir. The
// config file is watched for external edits and reloaded without a
// restart.
package main
