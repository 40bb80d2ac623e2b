package app

import (
	"context"
	"path/filepath"

	"github.com/dshills/stickbind/internal/config/watcher"
	"github.com/dshills/stickbind/internal/event"
)

// PrefsChanged is published on event.TopicPrefsChanged after the
// preference file was reloaded from disk.
type PrefsChanged struct {
	Path string
}

// Watch reloads the preference file and the profile when they change
// on disk. The profile is only reloaded while it has no unsaved
// changes. Close stops watching.
func (app *Application) Watch() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.watcher != nil {
		return nil
	}

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		app.logger.Warn("watch: %v", err)
	}))
	if err != nil {
		return NewOperationError("watch", "", err)
	}

	paths := map[string]func(){}
	if p := app.prefs.Path(); p != "" {
		paths[abs(p)] = app.reloadPrefs
	}
	if p := app.cfg.Paths.Profile; p != "" {
		paths[abs(p)] = app.reloadProfile
	}
	for p := range paths {
		if err := w.Watch(p); err != nil {
			w.Close()
			return NewOperationError("watch", p, err)
		}
	}

	w.OnChange(func(ev watcher.Event) {
		if reload, ok := paths[ev.Path]; ok && ev.Op != watcher.OpRemove {
			app.logger.Debug("%s changed (%s)", ev.Path, ev.Op)
			reload()
		}
	})
	app.watcher = w
	return nil
}

func abs(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}

func (app *Application) reloadPrefs() {
	if err := app.prefs.Reload(); err != nil {
		app.logger.Warn("reload prefs: %v", err)
		return
	}
	if err := app.remapper.Load(); err != nil {
		app.logger.Warn("reload joystick mapping: %v", err)
	}
	ev := event.NewEvent(event.TopicPrefsChanged, PrefsChanged{Path: app.prefs.Path()}, "app")
	if err := app.bus.Publish(context.Background(), ev); err != nil {
		app.logger.Warn("publish prefs change: %v", err)
	}
}

func (app *Application) reloadProfile() {
	if app.gateway.Unsaved() {
		app.logger.Info("profile changed on disk; keeping unsaved edits")
		return
	}
	if err := app.gateway.Load(context.Background(), app.cfg.Paths.Profile); err != nil {
		app.logger.Warn("reload profile: %v", err)
	}
}
