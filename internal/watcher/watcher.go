// Package watcher reloads the settings file when it changes and calls the
// hooks registered for the sections that changed.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/spotlesstofu/podman-peerpods/internal/config"
	"github.com/spotlesstofu/podman-peerpods/internal/loader"
)

// Hook is called with the new settings after a section changed.
type Hook func(ctx context.Context, settings *config.Settings) error

type namedHook struct {
	name string
	fn   Hook
}

// Watcher tracks one settings file.
type Watcher struct {
	path    string
	version string

	mu      sync.Mutex
	current *config.Settings
	hooks   map[string][]namedHook

	log *logrus.Entry
}

// New returns a Watcher for path. initial is the configuration already in
// use; changes are computed against it.
func New(path, version string, initial *config.Settings) *Watcher {
	if initial == nil {
		initial = &config.Settings{}
	}
	return &Watcher{
		path:    filepath.Clean(path),
		version: version,
		current: initial,
		hooks:   make(map[string][]namedHook),
		log:     logrus.WithField("component", "watcher"),
	}
}

// Register adds a hook for section. Hooks run in registration order.
func (w *Watcher) Register(section, name string, hook Hook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hooks[section] = append(w.hooks[section], namedHook{name: name, fn: hook})
}

// Run watches the settings file until ctx is done. The parent directory is
// watched so that editors replacing the file are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.WithField("path", w.path).Info("Watching settings file")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, err := w.Reload(ctx); err != nil {
				w.log.WithError(err).Warn("Ignoring settings change")
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("File watcher error")
		}
	}
}

// Reload reads the settings file, calls the hooks of every changed section
// and returns the changed section names. An invalid file leaves the
// current settings in place. A missing file reads as defaults.
func (w *Watcher) Reload(ctx context.Context) ([]string, error) {
	next, err := loader.LoadOrDefault(w.path, w.version)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	changed := ChangedSections(w.current, next)
	w.current = next
	var calls []namedHook
	for _, section := range changed {
		calls = append(calls, w.hooks[section]...)
	}
	w.mu.Unlock()

	if len(changed) == 0 {
		return nil, nil
	}
	w.log.WithField("sections", changed).Info("Settings changed")

	for _, h := range calls {
		if err := h.fn(ctx, next); err != nil {
			w.log.WithError(err).WithField("hook", h.name).Warn("Configuration hook failed")
		}
	}
	return changed, nil
}

// ChangedSections returns the sorted names of sections whose raw values
// differ between a and b.
func ChangedSections(a, b *config.Settings) []string {
	seen := make(map[string]bool)
	var changed []string
	check := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if !reflect.DeepEqual(section(a, name), section(b, name)) {
			changed = append(changed, name)
		}
	}
	for name := range sections(a) {
		check(name)
	}
	for name := range sections(b) {
		check(name)
	}
	sort.Strings(changed)
	return changed
}

func sections(s *config.Settings) map[string]map[string]any {
	if s == nil {
		return nil
	}
	return s.Sections
}

// section returns nil for an absent or empty section so the two compare equal.
func section(s *config.Settings, name string) map[string]any {
	sec := sections(s)[name]
	if len(sec) == 0 {
		return nil
	}
	return sec
}
