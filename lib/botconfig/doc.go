// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

// Package botconfig loads, persists, and watches the bot's YAML
// configuration.
//
// The raw [Config] mirrors the file on disk. Commands never read it
// directly: every load or change builds an immutable [Snapshot] with
// the rooms' alias rules already compiled, and [Store] publishes the
// snapshot atomically. A command handler grabs one snapshot at entry
// and works against that view for its whole run, so a reload halfway
// through a handler cannot mix old and new rules.
//
// Snapshots carry a monotonically increasing version. The admin
// command that adds a pattern goes through [Store.AddFormat], which
// persists the change (write to a temp file, then rename) before the
// new snapshot becomes visible.
package botconfig
