// Package app wires stickbind's components together and exposes the
// operations the command line drives.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/stickbind/internal/backend"
	"github.com/dshills/stickbind/internal/binding/match"
	"github.com/dshills/stickbind/internal/capture"
	"github.com/dshills/stickbind/internal/config"
	"github.com/dshills/stickbind/internal/config/watcher"
	"github.com/dshills/stickbind/internal/conflict"
	"github.com/dshills/stickbind/internal/device"
	"github.com/dshills/stickbind/internal/event"
	"github.com/dshills/stickbind/internal/gateway"
	"github.com/dshills/stickbind/internal/ident"
	"github.com/dshills/stickbind/internal/logging"
	"github.com/dshills/stickbind/internal/prefs"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses the default
	// location.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath.
	Config *config.Config

	// DefaultsPath, ProfilePath and ReplayPath override the configured
	// paths when set.
	DefaultsPath string
	ProfilePath  string
	ReplayPath   string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogOutput receives log lines when no log file is configured.
	// Defaults to stderr.
	LogOutput io.Writer

	// Clock drives capture timers. Defaults to the wall clock.
	Clock capture.Clock
}

// Application owns every component for one run of the tool.
type Application struct {
	cfg       config.Config
	opts      Options
	logger    *logging.Logger
	logCloser io.Closer

	bus      event.Bus
	prefs    *prefs.JSONStore
	backend  *backend.Local
	gateway  *gateway.Gateway
	matcher  *match.Matcher
	remapper *device.Remapper
	devices  *device.Database
	profiles *device.ProfileConverter
	lua      *ident.LuaConverter
	axes     ident.AxisConverter
	resolver *conflict.Resolver
	arbiter  *capture.Arbiter

	mu        sync.Mutex
	confirmer conflict.Confirmer
	watcher   *watcher.Watcher
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	if app.opts.Config != nil {
		app.cfg = *app.opts.Config
	} else {
		path := app.opts.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		app.cfg = cfg
	}
	app.applyOverrides()

	// 2. Logging
	if err := app.initLogging(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 3. Event bus
	app.bus = event.NewBus(
		event.WithPanicHandler(func(ev any, id string, recovered any) {
			app.logger.Error("handler %s panicked: %v", id, recovered)
		}),
		event.WithErrorHandler(func(err *event.HandlerError) {
			app.logger.Warn("%v", err)
		}),
	)

	// 4. Preferences
	if err := app.initPrefs(); err != nil {
		return &InitError{Component: "prefs", Err: err}
	}

	// 5. Backend and device source
	if err := app.initBackend(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}

	// 6. Device remapping and axis naming
	app.remapper = device.NewRemapper(app.prefs, app.logger)
	if err := app.initAxes(); err != nil {
		return &InitError{Component: "devices", Err: err}
	}

	// 7. Mutation gateway, matcher and conflict resolver
	app.gateway = gateway.New(app.backend, app.prefs, app.logger)
	if err := app.loadBindings(context.Background()); err != nil {
		return &InitError{Component: "bindings", Err: err}
	}
	app.matcher = match.New(app.gateway)
	app.resolver = conflict.NewResolver(app.gateway, conflict.ConfirmFunc(app.confirmConflicts), app.logger)

	// 8. Capture arbiter
	capOpts := []capture.Option{
		capture.WithConfig(capture.Config{
			InitialTimeout:      app.cfg.Capture.InitialTimeout.Std(),
			CollectDuration:     app.cfg.Capture.CollectDuration.Std(),
			GraceWindow:         app.cfg.Capture.GraceWindow.Std(),
			TimeoutDisplayDelay: app.cfg.Capture.TimeoutDisplayDelay.Std(),
			Converter:           app.axes,
		}),
		capture.WithDetector(app.backend),
		capture.WithRemapper(app.remapper),
		capture.WithConflictChecker(app.resolver),
		capture.WithLogger(app.logger),
	}
	if app.opts.Clock != nil {
		capOpts = append(capOpts, capture.WithClock(app.opts.Clock))
	}
	app.arbiter = capture.New(app.bus, app.gateway, capOpts...)

	app.logger.Debug("application ready")
	return nil
}

func (app *Application) applyOverrides() {
	if app.opts.DefaultsPath != "" {
		app.cfg.Paths.Defaults = app.opts.DefaultsPath
	}
	if app.opts.ProfilePath != "" {
		app.cfg.Paths.Profile = app.opts.ProfilePath
	}
	if app.opts.ReplayPath != "" {
		app.cfg.Paths.Replay = app.opts.ReplayPath
	}
	if app.opts.LogLevel != "" {
		app.cfg.Log.Level = app.opts.LogLevel
	}
}

func (app *Application) initLogging() error {
	level := logging.ParseLevel(app.cfg.Log.Level)
	if app.cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(app.cfg.Log.File), 0o755); err != nil {
			return err
		}
		logger, closer, err := logging.OpenFile(app.cfg.Log.File, level)
		if err != nil {
			return err
		}
		app.logger, app.logCloser = logger, closer
		return nil
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	if app.opts.LogOutput != nil {
		cfg.Output = app.opts.LogOutput
	}
	app.logger = logging.New(cfg)
	return nil
}

func (app *Application) initPrefs() error {
	path := app.cfg.Paths.Prefs
	if path == "" {
		app.prefs = prefs.NewMemory()
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	store, err := prefs.Open(path)
	if err != nil {
		return err
	}
	app.prefs = store
	return nil
}

func (app *Application) initBackend() error {
	opts := []backend.Option{
		backend.WithBus(app.bus),
		backend.WithLogger(app.logger),
	}
	if path := app.cfg.Paths.Replay; path != "" {
		src, err := backend.LoadReplayFile(path)
		if err != nil {
			return err
		}
		opts = append(opts, backend.WithDeviceSource(src))
	}
	app.backend = backend.NewLocal(opts...)

	if path := app.cfg.Paths.Defaults; path != "" {
		if err := app.backend.LoadDefaults(path); err != nil {
			return err
		}
	}
	return nil
}

// initAxes builds the axis naming chain: device database profiles,
// then the user's script, then the standard layout.
func (app *Application) initAxes() error {
	var chain ident.Chain

	if path := app.cfg.Paths.DeviceDatabase; path != "" {
		db, err := device.LoadDatabaseFile(path)
		if err != nil {
			return err
		}
		app.devices = db
		joysticks, err := app.backend.DetectJoysticks(context.Background())
		if err != nil && !errors.Is(err, backend.ErrDetectionUnavailable) {
			app.logger.Warn("list joysticks: %v", err)
		}
		app.profiles = device.NewProfileConverter(db, joysticks)
		chain = append(chain, app.profiles)
	}

	if path := app.cfg.Paths.AxisScript; path != "" {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		lua, err := ident.NewLuaConverter(string(src))
		if err != nil {
			return err
		}
		app.lua = lua
		chain = append(chain, lua)
	}

	app.axes = append(chain, ident.DefaultAxisTable)
	return nil
}

func (app *Application) loadBindings(ctx context.Context) error {
	if path := app.cfg.Paths.Profile; path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return app.gateway.Load(ctx, path)
		case !errors.Is(err, os.ErrNotExist):
			return err
		}
		app.logger.Info("profile %s does not exist yet", path)
	}
	if err := app.gateway.Refresh(ctx); err != nil && !errors.Is(err, backend.ErrNoProfile) {
		return err
	}
	return nil
}

// SetConfirmer sets who is asked about conflicting bindings. Nil
// proceeds without asking.
func (app *Application) SetConfirmer(c conflict.Confirmer) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.confirmer = c
}

func (app *Application) confirmConflicts(ctx context.Context, p conflict.Pending, conflicts []backend.Conflict) (bool, error) {
	app.mu.Lock()
	c := app.confirmer
	app.mu.Unlock()
	if c == nil {
		return true, nil
	}
	return c.ConfirmConflicts(ctx, p, conflicts)
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config { return app.cfg }

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger { return app.logger }

// Bus returns the event bus.
func (app *Application) Bus() event.Bus { return app.bus }

// Arbiter returns the capture arbiter.
func (app *Application) Arbiter() *capture.Arbiter { return app.arbiter }

// Gateway returns the binding mutation gateway.
func (app *Application) Gateway() *gateway.Gateway { return app.gateway }

// Prefs returns the preference store.
func (app *Application) Prefs() prefs.Store { return app.prefs }

// PrefsJSON returns the preferences document, indented.
func (app *Application) PrefsJSON() []byte { return app.prefs.JSON() }

// Close releases everything the application holds.
func (app *Application) Close() error {
	var errs ErrorList

	app.mu.Lock()
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()
	if w != nil {
		errs.Add(w.Close())
	}

	if app.arbiter != nil && app.arbiter.Active() {
		errs.Add(app.arbiter.Cancel())
	}
	if app.lua != nil {
		app.lua.Close()
	}
	if app.logCloser != nil {
		errs.Add(app.logCloser.Close())
	}
	return errs.AsError()
}
