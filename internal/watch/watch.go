// Package watch re-runs a callback when a single file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file. It listens on the file's parent directory so
// that editors replacing the file by rename are still observed.
type Watcher struct {
	w        *fsnotify.Watcher
	path     string
	debounce time.Duration
}

// New starts watching path. Events that arrive within debounce of each other
// are coalesced into one callback by Run.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("NewWatcher failed by backend fsnotify.NewWatcher(): %w", err)
	}

	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{w: w, path: abs, debounce: debounce}, nil
}

// Run calls fn once per burst of changes to the watched file until ctx is
// done. Errors returned by fn are logged and do not stop the loop.
// Run closes the watcher before returning.
func (wa *Watcher) Run(ctx context.Context, fn func() error) error {
	defer wa.w.Close()

	pending := time.NewTimer(wa.debounce)
	if !pending.Stop() {
		<-pending.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-wa.w.Events:
			if !ok {
				return nil
			}
			if !wa.relevant(ev) {
				continue
			}
			slog.Debug("input changed", "path", ev.Name, "op", ev.Op.String())
			wa.reset(pending)
		case err, ok := <-wa.w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Changes may have been dropped; regenerate to be safe.
				slog.Warn("watch event queue overflowed", "path", wa.path)
				wa.reset(pending)
				continue
			}
			return fmt.Errorf("watching %s: %w", wa.path, err)
		case <-pending.C:
			if err := fn(); err != nil {
				slog.Error("regeneration failed", "path", wa.path, "error", err)
			}
		}
	}
}

// Close stops watching without running.
func (wa *Watcher) Close() error {
	return wa.w.Close()
}

func (wa *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != wa.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (wa *Watcher) reset(t *time.Timer) {
	// needs select here since the timer may have fired and been drained already.
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(wa.debounce)
}

// File watches path and calls fn after each burst of changes until ctx is done.
func File(ctx context.Context, path string, debounce time.Duration, fn func() error) error {
	wa, err := New(path, debounce)
	if err != nil {
		return err
	}
	return wa.Run(ctx, fn)
}
