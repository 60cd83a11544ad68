// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package botconfig

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/altalias-project/altalias/lib/ref"
)

// Config is the raw on-disk configuration. Fields mirror the YAML file
// one to one; no compilation or normalization happens here, so that
// Save writes back exactly what the operator wrote plus the bot's own
// additions.
type Config struct {
	// Command lists the names the bot answers to. The first entry is
	// the primary name used in replies and help text; the rest are
	// accepted as aliases.
	Command []string `yaml:"command"`

	// Admins lists Matrix user IDs that may manage alias rules in
	// every room, regardless of their power level there.
	Admins []string `yaml:"admins"`

	// RequireLowercase rejects publish requests whose alias localpart
	// contains uppercase characters.
	RequireLowercase bool `yaml:"require_lowercase"`

	// Rooms maps room IDs to their per-room settings. A room present
	// here, even with an empty formats list, uses its allow-list
	// instead of the localpart fallback.
	Rooms map[string]RoomConfig `yaml:"rooms"`
}

// RoomConfig holds the per-room settings.
type RoomConfig struct {
	// Formats are regular expressions; an alias may be published in
	// the room when any of them matches the full alias string.
	Formats []string `yaml:"formats"`
}

// Default returns the configuration used as a base before the file is
// loaded. It keeps zero-value fields sensible; the file remains the
// source of truth.
func Default() *Config {
	return &Config{
		Command:          []string{"altalias"},
		RequireLowercase: true,
	}
}

// Validate checks the fields the bot cannot operate without. Room
// entries are deliberately not validated here: a bad room ID or
// pattern is dropped with a warning at snapshot build instead, so one
// typo cannot keep the whole bot from starting.
func (c *Config) Validate() error {
	if len(c.Command) == 0 {
		return fmt.Errorf("botconfig: command list is empty")
	}
	for _, name := range c.Command {
		if name == "" || strings.ContainsAny(name, " \t\n") {
			return fmt.Errorf("botconfig: invalid command name %q", name)
		}
	}
	for _, admin := range c.Admins {
		if _, err := ref.ParseUserID(admin); err != nil {
			return fmt.Errorf("botconfig: invalid admin entry: %w", err)
		}
	}
	return nil
}

// Parse decodes YAML into a Config on top of [Default], then
// validates.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("botconfig: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the config back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("botconfig: marshal: %w", err)
	}
	return data, nil
}

// clone returns a deep copy. Store mutates only clones, keeping every
// published Config immutable.
func (c *Config) clone() *Config {
	copied := &Config{
		Command:          append([]string(nil), c.Command...),
		Admins:           append([]string(nil), c.Admins...),
		RequireLowercase: c.RequireLowercase,
	}
	if c.Rooms != nil {
		copied.Rooms = make(map[string]RoomConfig, len(c.Rooms))
		for roomID, room := range c.Rooms {
			copied.Rooms[roomID] = RoomConfig{
				Formats: append([]string(nil), room.Formats...),
			}
		}
	}
	return copied
}
