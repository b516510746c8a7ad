package project

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of filesystem events an atomic
// save produces (create, write, rename) into one reload.
const debounceWindow = 100 * time.Millisecond

// Watch reloads the store whenever its file changes on disk and invokes
// onChange with the fresh project list. It watches the containing
// directory rather than the file itself, because the atomic save replaces
// the file by rename. Watch blocks until ctx is cancelled or the watcher
// fails.
func (s *Store) Watch(ctx context.Context, onChange func([]Project)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch store directory: %w", err)
	}

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != StoreFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending = true
			debounce.Reset(debounceWindow)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher failed: %w", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := s.Reload(); err != nil {
				// A half-finished external edit can briefly leave invalid
				// YAML; keep the previous in-memory set and wait for the
				// next event.
				continue
			}
			onChange(s.List())
		}
	}
}
