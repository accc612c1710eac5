// SPDX-License-Identifier: MIT

package project

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultDebounce collapses editor save bursts into one regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a function whenever one of Paths changes on disk.
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	Logger   zerolog.Logger
}

// Watch is Watcher.Run with the default debounce.
func Watch(ctx context.Context, path string, fn func(context.Context) error) error {
	w := &Watcher{Paths: []string{path}, Debounce: DefaultDebounce, Logger: zerolog.Nop()}
	return w.Run(ctx, fn)
}

// Run blocks until ctx is done. Errors returned by fn are logged, not fatal.
// Directories are watched rather than files so that editors which replace
// the file on save keep triggering events.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	targets := make(map[string]struct{}, len(w.Paths))
	dirs := make(map[string]struct{})
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w.Logger.Info().
		Str("event", "watch.started").
		Strs("paths", w.Paths).
		Msg("watching for changes")

	// Network shares can report the same error in a tight loop.
	errLog := rate.Sometimes{First: 1, Interval: 5 * time.Second}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info().Str("event", "watch.stopped").Msg("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, hit := targets[name]; !hit {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.Logger.Debug().
				Str("event", "watch.file_changed").
				Str("op", event.Op.String()).
				Str("file", name).
				Msg("file changed")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				w.Logger.Error().Err(err).Str("event", "watch.run_failed").Msg("regeneration failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			errLog.Do(func() {
				w.Logger.Error().Err(err).Str("event", "watch.error").Msg("watcher error")
			})
		}
	}
}
