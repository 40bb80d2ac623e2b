package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dshills/stickbind/internal/backend"
	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/binding/match"
	"github.com/dshills/stickbind/internal/capture"
	"github.com/dshills/stickbind/internal/conflict"
	"github.com/dshills/stickbind/internal/device"
	"github.com/dshills/stickbind/internal/ident"
	"github.com/dshills/stickbind/internal/input/joystick"
	"github.com/dshills/stickbind/internal/input/key"
	"github.com/dshills/stickbind/internal/prefs"
	"github.com/dshills/stickbind/internal/template"
)

// ErrRejected is returned by Bind when the conflict prompt declined.
var ErrRejected = errors.New("binding rejected")

// Normalize converts user input into a canonical token using the
// configured axis names. Input without a device prefix is tried as a
// key specification ("a", "LAlt+KeyF") before giving up.
func (app *Application) Normalize(raw string) (ident.Canonical, bool) {
	ctx := ident.Context{Converter: app.axes}
	c, ok := ident.Normalize(raw, ctx)
	if ok && ident.DevicePrefix(c) != "" {
		return c, true
	}
	if ev, err := key.Parse(raw); err == nil {
		if in, isKey := ev.Input(); isKey {
			return ident.Normalize(in, ctx)
		}
	}
	return c, ok
}

// Filters returns the search filters saved in the preferences.
func (app *Application) Filters() match.Filters {
	return match.Filters{
		HideDefaults: app.prefs.Bool(prefs.KeyHideDefaults),
		Modifier:     app.prefs.String(prefs.KeyModifierFilter),
		Category:     app.prefs.String(prefs.KeyCategoryFilter),
	}
}

// SaveFilters stores f as the default search filters.
func (app *Application) SaveFilters(f match.Filters) error {
	var errs ErrorList
	errs.Add(app.prefs.Set(prefs.KeyHideDefaults, f.HideDefaults))
	errs.Add(app.prefs.Set(prefs.KeyModifierFilter, f.Modifier))
	errs.Add(app.prefs.Set(prefs.KeyCategoryFilter, f.Category))
	return errs.AsError()
}

// Search runs q against the current bindings.
func (app *Application) Search(q match.Query, f match.Filters) []match.Match {
	return app.matcher.Search(q, f)
}

// Bindings returns the merged binding tree.
func (app *Application) Bindings() binding.Profile {
	return app.gateway.Profile()
}

// Bind applies input to target after the conflict check.
func (app *Application) Bind(ctx context.Context, target capture.Target, input string) error {
	op := target.ActionMap + "/" + target.Action
	in, ok := app.Normalize(input)
	if !ok {
		return NewOperationError("bind", op, fmt.Errorf("unusable input %q", input))
	}

	decision, _, err := app.resolver.Check(ctx, conflict.Pending{
		ActionMap: target.ActionMap,
		Action:    target.Action,
		Input:     string(in),
	})
	if err != nil {
		return NewOperationError("bind", op, err)
	}
	if decision == conflict.Discard {
		return NewOperationError("bind", op, ErrRejected)
	}
	if err := app.gateway.Update(ctx, target.ActionMap, target.Action, string(in)); err != nil {
		return NewOperationError("bind", op, err)
	}
	return nil
}

// Clear unbinds input from target.
func (app *Application) Clear(ctx context.Context, target capture.Target, input string) error {
	if err := app.gateway.Clear(ctx, target.ActionMap, target.Action, input); err != nil {
		return NewOperationError("clear", target.ActionMap+"/"+target.Action, err)
	}
	return nil
}

// Reset restores target's default bindings.
func (app *Application) Reset(ctx context.Context, target capture.Target) error {
	if err := app.gateway.Reset(ctx, target.ActionMap, target.Action); err != nil {
		return NewOperationError("reset", target.ActionMap+"/"+target.Action, err)
	}
	return nil
}

// Conflicts lists customised actions already bound to input, except
// target.
func (app *Application) Conflicts(ctx context.Context, input string, target capture.Target) ([]backend.Conflict, error) {
	in, ok := app.Normalize(input)
	if !ok {
		return nil, NewOperationError("conflicts", input, errors.New("unusable input"))
	}
	return app.gateway.FindConflictingBindings(ctx, string(in), target.ActionMap, target.Action)
}

// Save writes the profile to the configured profile path, or to the
// file it was last loaded from or exported to.
func (app *Application) Save(ctx context.Context) error {
	path := app.cfg.Paths.Profile
	if path == "" {
		path = app.gateway.LastFilePath()
	}
	if path == "" {
		return ErrNoProfilePath
	}
	return app.Export(ctx, path)
}

// Export writes the profile to path.
func (app *Application) Export(ctx context.Context, path string) error {
	if err := app.gateway.Export(ctx, path); err != nil {
		return NewOperationError("export", path, err)
	}
	return nil
}

// Import replaces the profile with the file at path.
func (app *Application) Import(ctx context.Context, path string) error {
	if err := app.gateway.Load(ctx, path); err != nil {
		return NewOperationError("import", path, err)
	}
	return nil
}

// ClearAll drops every custom binding.
func (app *Application) ClearAll(ctx context.Context) error {
	if err := app.gateway.ClearAll(ctx); err != nil {
		return NewOperationError("clear all", "", err)
	}
	return nil
}

// WriteUnbindProfile writes a profile that clears every action on the
// given device instances. An empty list covers backend.UnbindDevices.
func (app *Application) WriteUnbindProfile(ctx context.Context, path string, devices []string) error {
	if err := app.backend.GenerateUnbindProfile(ctx, path, devices); err != nil {
		return NewOperationError("unbind profile", path, err)
	}
	return nil
}

// RemoveUnbindProfile deletes an unbind profile written earlier. Other
// profile files are left alone.
func (app *Application) RemoveUnbindProfile(path string) error {
	ok, err := backend.IsUnbindProfile(path)
	if err != nil {
		return NewOperationError("remove unbind profile", path, err)
	}
	if !ok {
		return NewOperationError("remove unbind profile", path, ErrNotUnbindProfile)
	}
	if err := os.Remove(path); err != nil {
		return NewOperationError("remove unbind profile", path, err)
	}
	app.logger.Info("removed unbind profile %s", path)
	return nil
}

// Target resolves an action by name and reports a friendly title for
// it.
func (app *Application) Target(mapName, action string) (capture.Target, string, error) {
	t := capture.Target{ActionMap: mapName, Action: action}
	tree := app.gateway.Profile()
	for _, am := range tree.ActionMaps {
		if am.Name != mapName {
			continue
		}
		for _, a := range am.Actions {
			if a.Name == action {
				return t, am.DisplayLabel() + " > " + a.DisplayLabel(), nil
			}
		}
	}
	if len(tree.ActionMaps) == 0 {
		// Nothing loaded to check against; let the backend decide.
		return t, mapName + " > " + action, nil
	}
	return t, "", NewOperationError("find", mapName+"/"+action, backend.ErrNotFound)
}

// CaptureUI shows a capture session until it closes.
type CaptureUI interface {
	Run(ctx context.Context, sessionID, title string) (capture.State, error)
}

// Capture runs a live capture session for target on ui.
func (app *Application) Capture(ctx context.Context, target capture.Target, title string, ui CaptureUI) (capture.State, error) {
	id, err := app.arbiter.Start(ctx, target)
	if err != nil {
		return capture.Failed, NewOperationError("capture", target.ActionMap+"/"+target.Action, err)
	}
	return ui.Run(ctx, id, title)
}

// DeviceInfo describes a connected controller.
type DeviceInfo struct {
	joystick.Info

	// Target is where the device's inputs are routed. Mapped is false
	// for a device passed through unchanged.
	Target device.Target
	Mapped bool

	// AxisProfile names the device database profile used for its axes.
	AxisProfile string
}

// Devices lists connected controllers with their routing.
func (app *Application) Devices(ctx context.Context) ([]DeviceInfo, error) {
	infos, err := app.backend.DetectJoysticks(ctx)
	if err != nil {
		return nil, err
	}
	if app.profiles != nil {
		app.profiles.SetDevices(infos)
	}

	table := app.remapper.Table()
	out := make([]DeviceInfo, len(infos))
	for i, info := range infos {
		d := DeviceInfo{Info: info}
		d.Target, d.Mapped = table[info.ID]
		if app.devices != nil {
			if name, _, err := app.devices.ProfileFor(info.Name); err == nil {
				d.AxisProfile = name
			}
		}
		out[i] = d
	}
	return out, nil
}

// MapDevice routes the physical joystick to target ("1".."4" or
// "disabled"). "none" removes the routing.
func (app *Application) MapDevice(physical int, target string) error {
	op := fmt.Sprintf("js%d", physical)
	if strings.EqualFold(strings.TrimSpace(target), "none") {
		if err := app.remapper.Unset(physical); err != nil {
			return NewOperationError("map-device", op, err)
		}
		return nil
	}
	t, err := device.ParseTarget(target)
	if err != nil {
		return NewOperationError("map-device", op, err)
	}
	if err := app.remapper.Set(physical, t); err != nil {
		return NewOperationError("map-device", op, err)
	}
	return nil
}

// Identify waits for one controller input. It returns nil when nothing
// was pressed in time.
func (app *Application) Identify(ctx context.Context, timeout time.Duration) (*backend.DetectedInput, error) {
	return app.backend.WaitForInputBinding(ctx, timeout)
}

// Overlay reads the template at path and pairs its buttons with the
// bindings they drive.
func (app *Application) Overlay(path string, f match.Filters) ([]template.ButtonOverlay, error) {
	t, err := template.LoadFile(path)
	if err != nil {
		return nil, NewOperationError("overlay", path, err)
	}
	return template.Overlay(t, app.matcher, f), nil
}
