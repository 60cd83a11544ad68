// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package botconfig

import (
	"log/slog"

	"github.com/altalias-project/altalias/lib/aliasrule"
	"github.com/altalias-project/altalias/lib/clock"
	"github.com/altalias-project/altalias/lib/ref"
)

// Snapshot is an immutable compiled view of the configuration. All
// lookups command handlers perform during a message go through one
// snapshot, so concurrent reloads never change the rules mid-decision.
type Snapshot struct {
	version          uint64
	command          string
	commandNames     map[string]struct{}
	admins           map[string]struct{}
	requireLowercase bool
	rooms            map[ref.RoomID]*aliasrule.RuleSet
}

// newSnapshot compiles a raw config into a snapshot. Compilation is
// lenient: room IDs that do not parse and patterns that do not compile
// are dropped with a warning, never an error. Strictness belongs to
// the admin command path ([Store.AddFormat]), not to reload.
func newSnapshot(cfg *Config, version uint64, clk clock.Clock, logger *slog.Logger) *Snapshot {
	snapshot := &Snapshot{
		version:          version,
		command:          cfg.Command[0],
		commandNames:     make(map[string]struct{}, len(cfg.Command)),
		admins:           make(map[string]struct{}, len(cfg.Admins)),
		requireLowercase: cfg.RequireLowercase,
		rooms:            make(map[ref.RoomID]*aliasrule.RuleSet, len(cfg.Rooms)),
	}
	for _, name := range cfg.Command {
		snapshot.commandNames[name] = struct{}{}
	}
	for _, admin := range cfg.Admins {
		snapshot.admins[admin] = struct{}{}
	}
	for rawRoomID, room := range cfg.Rooms {
		roomID, err := ref.ParseRoomID(rawRoomID)
		if err != nil {
			logger.Warn("dropping room with unparseable ID from config",
				"room_id", rawRoomID,
				"error", err)
			continue
		}
		rules := aliasrule.CompileAll(room.Formats, logger)
		snapshot.rooms[roomID] = aliasrule.NewRuleSet(rules, clk, logger)
	}
	return snapshot
}

// Version returns the snapshot's monotonically increasing version.
// Each successful load, reload, or AddFormat produces a new version.
func (s *Snapshot) Version() uint64 { return s.version }

// Command returns the bot's primary command name, used in replies and
// help text.
func (s *Snapshot) Command() string { return s.command }

// IsCommand reports whether name is the primary command or one of its
// configured aliases.
func (s *Snapshot) IsCommand(name string) bool {
	_, ok := s.commandNames[name]
	return ok
}

// IsAdmin reports whether the user is a configured global admin.
func (s *Snapshot) IsAdmin(userID ref.UserID) bool {
	_, ok := s.admins[userID.String()]
	return ok
}

// RequireLowercase reports whether publish requests must use lowercase
// alias localparts.
func (s *Snapshot) RequireLowercase() bool { return s.requireLowercase }

// Rules returns the compiled allow-list for a room, or nil when the
// room has no configuration. The nil/non-nil distinction matters:
// [aliasrule.Allowed] applies the localpart fallback only for nil.
func (s *Snapshot) Rules(roomID ref.RoomID) *aliasrule.RuleSet {
	return s.rooms[roomID]
}
