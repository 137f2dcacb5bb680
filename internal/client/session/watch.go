package session

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDelay coalesces the burst of file events SQLite produces for a single
// commit (database, journal and WAL files).
const watchDelay = 100 * time.Millisecond

// Watch reports writes made by other processes to the database at dbPath as
// Change events with External set. It returns once the watcher is installed
// and keeps running until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, dbPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("session watch: create watcher: %w", err)
	}
	dir := filepath.Dir(dbPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("session watch %s: %w", dir, err)
	}

	s.mu.Lock()
	initial, err := s.repo.List(ctx)
	if err == nil {
		s.snapshot = initial
	}
	s.mu.Unlock()
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("session watch: %w", err)
	}

	base := filepath.Base(dbPath)
	throttle := newThrottle(watchDelay)

	go func() {
		defer func() {
			throttle.Stop()
			if err := watcher.Close(); err != nil {
				s.log.Warn(ctx, "session watcher close", "error", err)
			}
			s.mu.Lock()
			s.snapshot = nil
			s.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn(ctx, "session watcher", "error", err)
				throttle.Enqueue(func() { s.resync(ctx) })
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(evt.Name), base) {
					continue
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				throttle.Enqueue(func() { s.resync(ctx) })
			}
		}
	}()

	return nil
}

// resync diffs the stored values against the last snapshot and broadcasts
// every difference as an external change.
func (s *Store) resync(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	if s.snapshot == nil {
		s.mu.Unlock()
		return
	}
	current, err := s.repo.List(ctx)
	if err != nil {
		s.mu.Unlock()
		s.log.Warn(ctx, "session resync", "error", err)
		return
	}
	changes := diff(s.snapshot, current)
	s.snapshot = current
	s.mu.Unlock()

	if len(changes) > 0 {
		s.log.Debug(ctx, "external session change", "keys", len(changes))
	}
	s.broadcast(changes)
}

// diff lists changes from old to current in key order.
func diff(old, current map[string]string) []Change {
	keys := make(map[string]struct{}, len(old)+len(current))
	for k := range old {
		keys[k] = struct{}{}
	}
	for k := range current {
		keys[k] = struct{}{}
	}

	var changes []Change
	for _, k := range slices.Sorted(maps.Keys(keys)) {
		before, had := old[k]
		after, has := current[k]
		switch {
		case had && !has:
			changes = append(changes, Change{Key: Key(k), Removed: true, External: true})
		case has && (!had || before != after):
			changes = append(changes, Change{Key: Key(k), Value: after, External: true})
		}
	}
	return changes
}

type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay}
}

// Enqueue schedules fn to run after the delay unless a run is already
// pending, in which case the call is folded into it.
func (t *throttle) Enqueue(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

func (t *throttle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
