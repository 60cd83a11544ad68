// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package botconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/altalias-project/altalias/lib/aliasrule"
	"github.com/altalias-project/altalias/lib/clock"
	"github.com/altalias-project/altalias/lib/ref"
)

// Store owns the configuration file: it loads it, publishes compiled
// snapshots, persists admin changes, and reloads on demand.
//
// Readers call [Store.Current] and get a consistent immutable
// snapshot without locking. Writers (Reload, AddFormat) serialize on
// an internal mutex.
type Store struct {
	path   string
	clock  clock.Clock
	logger *slog.Logger

	current atomic.Pointer[Snapshot]

	// mu serializes mutations: raw is the last successfully loaded
	// config, version counts successful publishes.
	mu      sync.Mutex
	raw     *Config
	version uint64
}

// NewStore creates a store for the config file at path. Call
// [Store.Load] before first use.
func NewStore(path string, clk clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		clock:  clk,
		logger: logger,
	}
}

// Load reads and compiles the config file. Unlike Reload, a missing
// file is an error: starting without configuration would silently run
// the bot with a default command name and no admins.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("botconfig: read %s: %w", s.path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	s.publishLocked(cfg)
	return nil
}

// Reload re-reads the config file, typically after an external edit.
// On any error the current snapshot stays in place, so a broken edit
// degrades to stale rules instead of no rules.
func (s *Store) Reload() error {
	return s.Load()
}

// Current returns the latest published snapshot. It is nil until the
// first successful Load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// AddFormat adds an allow-list pattern to a room and persists it. The
// pattern is compiled strictly first: a pattern that does not compile
// is returned as an error and nothing changes, on disk or in memory.
// The change is written to disk before the new snapshot becomes
// visible, so a crash between the two cannot lose an acknowledged
// rule.
func (s *Store) AddFormat(roomID ref.RoomID, pattern string) (*Snapshot, error) {
	if _, err := aliasrule.Compile(pattern); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raw == nil {
		return nil, fmt.Errorf("botconfig: store not loaded")
	}

	updated := s.raw.clone()
	if updated.Rooms == nil {
		updated.Rooms = make(map[string]RoomConfig)
	}
	room := updated.Rooms[roomID.String()]
	room.Formats = append(room.Formats, pattern)
	updated.Rooms[roomID.String()] = room

	if err := s.writeLocked(updated); err != nil {
		return nil, err
	}
	return s.publishLocked(updated), nil
}

// writeLocked persists cfg with a write-then-rename so a crash mid
// write never leaves a truncated config file. Caller holds mu.
func (s *Store) writeLocked(cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("botconfig: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("botconfig: write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("botconfig: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("botconfig: rename into place: %w", err)
	}
	return nil
}

// publishLocked compiles cfg into the next snapshot version and makes
// it current. Caller holds mu.
func (s *Store) publishLocked(cfg *Config) *Snapshot {
	s.version++
	snapshot := newSnapshot(cfg, s.version, s.clock, s.logger)
	s.raw = cfg
	s.current.Store(snapshot)
	s.logger.Info("configuration published",
		"version", snapshot.version,
		"rooms", len(snapshot.rooms),
		"admins", len(snapshot.admins))
	return snapshot
}
