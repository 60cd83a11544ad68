// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package botconfig

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the config file changes on disk,
// until ctx is canceled. It watches the containing directory rather
// than the file itself: editors and the store's own save both replace
// the file by rename, which would invalidate a direct file watch.
//
// Reload failures are logged and the previous snapshot stays current.
// The store's own saves also trigger a reload; that is a harmless
// re-publish of the same content.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("botconfig: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("botconfig: watch %s: %w", filepath.Dir(s.path), err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("botconfig: watcher closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("config reload failed, keeping previous snapshot",
					"path", s.path,
					"error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("botconfig: watcher closed")
			}
			s.logger.Warn("config watcher error", "error", err)
		}
	}
}
