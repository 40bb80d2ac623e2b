package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/event"
	"github.com/dshills/stickbind/internal/logging"
)

// Option configures a Local backend.
type Option func(*Local)

// WithDefaults sets the defaults database.
func WithDefaults(d *Defaults) Option {
	return func(l *Local) { l.defaults = d }
}

// WithProfile sets the initial user profile.
func WithProfile(p *Profile) Option {
	return func(l *Local) { l.profile = p }
}

// WithBus sets the bus detection events are published on.
func WithBus(b event.Bus) Option {
	return func(l *Local) { l.bus = b }
}

// WithDeviceSource sets the controller event source.
func WithDeviceSource(s DeviceSource) Option {
	return func(l *Local) { l.source = s }
}

// WithLogger sets the logger.
func WithLogger(lg *logging.Logger) Option {
	return func(l *Local) { l.logger = lg }
}

// Local is a Backend over XML files on disk and a DeviceSource.
type Local struct {
	mu       sync.Mutex
	defaults *Defaults
	profile  *Profile
	bus      event.Bus
	source   DeviceSource
	logger   *logging.Logger

	run *detectionRun
}

// NewLocal creates a Local backend.
func NewLocal(opts ...Option) *Local {
	l := &Local{}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.OrNull(l.logger).WithComponent("backend")
	return l
}

var _ Backend = (*Local)(nil)

// LoadDefaults reads the defaults database from path.
func (l *Local) LoadDefaults(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	defer f.Close()

	d, err := ParseDefaults(f)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.defaults = d
	l.mu.Unlock()
	l.logger.Info("loaded %d action maps from %s", len(d.Maps), path)
	return nil
}

// Profile returns a copy of the user profile, or nil.
func (l *Local) Profile() *Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.profile == nil {
		return nil
	}
	return l.profile.clone()
}

// GetMergedBindings implements Backend.
func (l *Local) GetMergedBindings(ctx context.Context) (binding.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.defaults == nil && l.profile == nil {
		return binding.Profile{}, ErrNoProfile
	}
	return Merge(l.defaults, l.profile), nil
}

// LoadKeybindings implements Backend.
func (l *Local) LoadKeybindings(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load keybindings: %w", err)
	}
	defer f.Close()

	p, err := ParseProfile(f)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.profile = p
	l.mu.Unlock()
	l.logger.Info("loaded profile %q from %s", p.Name, path)
	return nil
}

// ExportKeybindings implements Backend.
func (l *Local) ExportKeybindings(ctx context.Context, path string) error {
	l.mu.Lock()
	if l.profile == nil {
		l.mu.Unlock()
		return ErrNoProfile
	}
	var buf bytes.Buffer
	err := WriteProfile(&buf, l.profile, l.defaults)
	l.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export keybindings: %w", err)
	}
	l.logger.Info("exported profile to %s", path)
	return nil
}

// UpdateBinding implements Backend.
func (l *Local) UpdateBinding(ctx context.Context, mapName, action, input string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkAction(mapName, action); err != nil {
		return err
	}
	if l.profile == nil {
		l.profile = NewProfile("")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		l.profile.removeAction(mapName, action)
		l.logger.Debug("dropped overrides of %s/%s", mapName, action)
		return nil
	}

	pa := l.profile.ensureAction(mapName, action)
	dev := deviceInstance(input)
	for i, r := range pa.Rebinds {
		if deviceInstance(r.Input) == dev {
			pa.Rebinds[i] = Rebind{Input: input}
			l.logger.Debug("replaced %s binding of %s/%s with %s", dev, mapName, action, input)
			return nil
		}
	}
	pa.Rebinds = append(pa.Rebinds, Rebind{Input: input})
	l.logger.Debug("bound %s to %s/%s", input, mapName, action)
	return nil
}

// ClearSpecificBinding implements Backend. When the action has a default
// for the input's device class a cleared entry is written so the default
// stays suppressed; otherwise the rebind is simply removed.
func (l *Local) ClearSpecificBinding(ctx context.Context, mapName, action, input string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, _ := binding.DeviceOf(input)
	if t == binding.Unknown {
		return fmt.Errorf("clear %q: %w", input, ErrUnknownInputType)
	}
	if err := l.checkAction(mapName, action); err != nil {
		return err
	}
	if l.profile == nil {
		l.profile = NewProfile("")
	}

	dev := deviceInstance(input)
	pa := l.profile.findAction(mapName, action)
	if pa != nil {
		kept := pa.Rebinds[:0]
		for _, r := range pa.Rebinds {
			if deviceInstance(r.Input) != dev {
				kept = append(kept, r)
			}
		}
		pa.Rebinds = kept
	}

	_, da := l.defaults.findAction(mapName, action)
	if hasDefault(da, t) {
		pa = l.profile.ensureAction(mapName, action)
		pa.Rebinds = append(pa.Rebinds, Rebind{Input: dev + "_ "})
	} else if pa != nil && len(pa.Rebinds) == 0 {
		l.profile.removeAction(mapName, action)
	}
	l.logger.Debug("cleared %s from %s/%s", dev, mapName, action)
	return nil
}

// ResetBinding implements Backend.
func (l *Local) ResetBinding(ctx context.Context, mapName, action string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.profile == nil {
		return ErrNoProfile
	}
	if !l.profile.removeAction(mapName, action) {
		l.logger.Debug("reset of %s/%s: no overrides", mapName, action)
	}
	return nil
}

// FindConflictingBindings implements Backend. Only the user's rebinds
// are scanned.
func (l *Local) FindConflictingBindings(ctx context.Context, input, excludeMap, excludeAction string) ([]Conflict, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	input = strings.TrimSpace(input)
	if l.profile == nil || input == "" || binding.IsCleared(input) {
		return nil, nil
	}

	var out []Conflict
	for _, pm := range l.profile.Maps {
		for _, pa := range pm.Actions {
			if pm.Name == excludeMap && pa.Name == excludeAction {
				continue
			}
			for _, r := range pa.Rebinds {
				if !strings.EqualFold(strings.TrimSpace(r.Input), input) {
					continue
				}
				out = append(out, l.conflict(pm.Name, pa.Name))
				break
			}
		}
	}
	return out, nil
}

func (l *Local) conflict(mapName, action string) Conflict {
	c := Conflict{MapName: mapName, MapLabel: mapName, ActionName: action, ActionLabel: action}
	dm, da := l.defaults.findAction(mapName, action)
	if dm != nil {
		c.MapLabel = binding.ActionMap{Name: dm.Name, Label: dm.Label}.DisplayLabel()
	}
	if da != nil {
		c.ActionLabel = binding.Action{Name: da.Name, Label: da.Label}.DisplayLabel()
	}
	return c
}

// checkAction fails when the defaults are loaded and do not know the action.
func (l *Local) checkAction(mapName, action string) error {
	if mapName == "" || action == "" {
		return fmt.Errorf("%s/%s: %w", mapName, action, ErrNotFound)
	}
	if l.defaults == nil {
		return nil
	}
	if _, da := l.defaults.findAction(mapName, action); da != nil {
		return nil
	}
	if l.profile != nil && l.profile.findAction(mapName, action) != nil {
		return nil
	}
	return fmt.Errorf("action %s/%s: %w", mapName, action, ErrNotFound)
}

func (p *Profile) clone() *Profile {
	out := &Profile{
		Name:       p.Name,
		Categories: append([]string(nil), p.Categories...),
		Joysticks:  append([]string(nil), p.Joysticks...),
		Maps:       make([]ProfileMap, len(p.Maps)),
	}
	for i, m := range p.Maps {
		out.Maps[i] = ProfileMap{Name: m.Name, Actions: make([]ProfileAction, len(m.Actions))}
		for j, a := range m.Actions {
			out.Maps[i].Actions[j] = ProfileAction{Name: a.Name, Rebinds: append([]Rebind(nil), a.Rebinds...)}
		}
	}
	return out
}
