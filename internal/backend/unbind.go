package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/stickbind/internal/binding"
)

// UnbindProfileName is the profile name of generated unbind profiles.
const UnbindProfileName = "UNBIND_ALL_DEVICES"

// UnbindDevices lists the device instances an unbind profile clears
// when none are chosen.
var UnbindDevices = []string{"kb1", "mouse1", "gp1", "js1", "js2"}

// menu actions keep Escape so the game stays navigable.
var menuActions = map[string]bool{
	"ui_toggle_pause": true,
	"ui_back":         true,
}

// UnbindProfile builds a profile that clears every action of d on the
// given device instances ("kb1", "js2"). Menu actions are bound to
// Escape instead.
func UnbindProfile(d *Defaults, devices []string) (*Profile, error) {
	if d == nil {
		return nil, ErrNoProfile
	}
	if len(devices) == 0 {
		devices = UnbindDevices
	}

	var cleared []Rebind
	seen := make(map[string]bool)
	for _, dev := range devices {
		prefix, err := unbindPrefix(dev)
		if err != nil {
			return nil, err
		}
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		cleared = append(cleared, Rebind{Input: prefix + "_ "})
	}

	p := NewProfile(UnbindProfileName)
	for _, m := range d.Maps {
		pm := ProfileMap{Name: m.Name}
		for _, a := range m.Actions {
			pa := ProfileAction{Name: a.Name}
			if menuActions[a.Name] {
				pa.Rebinds = []Rebind{{Input: "kb1_escape", ActivationMode: "press"}}
			} else {
				pa.Rebinds = append([]Rebind(nil), cleared...)
			}
			pm.Actions = append(pm.Actions, pa)
		}
		p.Maps = append(p.Maps, pm)
	}
	return p, nil
}

var unbindDeviceRe = regexp.MustCompile(`^(kb|mouse|mo|js|gp)(\d*)$`)

// unbindPrefix validates a device instance and returns it in canonical
// form, "mo2" becoming "mouse2" and "kb" becoming "kb1".
func unbindPrefix(dev string) (string, error) {
	dev = strings.ToLower(strings.TrimSpace(dev))
	if !unbindDeviceRe.MatchString(dev) {
		return "", fmt.Errorf("device %q: %w", dev, ErrUnknownInputType)
	}
	t, n := binding.DeviceOf(dev + "_x")
	return t.Prefix() + strconv.Itoa(max(n, 1)), nil
}

// GenerateUnbindProfile writes an unbind profile for devices to path.
// The loaded user profile is left alone.
func (l *Local) GenerateUnbindProfile(ctx context.Context, path string, devices []string) error {
	l.mu.Lock()
	p, err := UnbindProfile(l.defaults, devices)
	var buf bytes.Buffer
	if err == nil {
		err = WriteProfile(&buf, p, l.defaults)
	}
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("unbind profile: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unbind profile: %w", err)
	}
	l.logger.Info("wrote unbind profile to %s", path)
	return nil
}

// IsUnbindProfile reports whether the profile file at path was written
// by GenerateUnbindProfile.
func IsUnbindProfile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	p, err := ParseProfile(f)
	if err != nil {
		return false, err
	}
	return p.Name == UnbindProfileName, nil
}

// ClearCustomBindings implements Backend.
func (l *Local) ClearCustomBindings(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.profile == nil {
		return ErrNoProfile
	}
	l.profile = &Profile{
		Name:       l.profile.Name,
		Categories: l.profile.Categories,
		Joysticks:  l.profile.Joysticks,
	}
	l.logger.Info("cleared all custom bindings")
	return nil
}
