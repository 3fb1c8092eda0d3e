// Package watcher reports changes to a set of schema files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce groups the burst of events a single editor save produces
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls back when any of Paths is written
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	Logger   *logrus.Logger
}

// NewWatcher creates a new watcher for the given files
func NewWatcher(paths []string, logger *logrus.Logger) *Watcher {
	return &Watcher{
		Paths:    paths,
		Debounce: DefaultDebounce,
		Logger:   logger,
	}
}

// Watch blocks until ctx is done, calling onChange with the absolute path of
// each changed file. Parent directories are watched rather than the files
// themselves so that editors which replace a file on save keep triggering.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	watched := make(map[string]bool, len(w.Paths))
	dirs := make(map[string]bool)
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.Logger.Infof("Watching %d file(s) for changes", len(watched))

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if !watched[path] || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.Logger.Debugf("Change detected: %s", event)
			pending[path] = true
			timer.Reset(w.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warningf("Watcher error: %v", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			clear(pending)
			sort.Strings(changed)
			for _, path := range changed {
				onChange(path)
			}
		}
	}
}
