package backend

import (
	"strings"

	"github.com/dshills/stickbind/internal/binding"
)

// Defaults is the defaults database.
type Defaults struct {
	Maps []DefaultMap
}

// DefaultMap is an action map in the defaults database.
type DefaultMap struct {
	Name     string
	Version  string
	Label    string
	Category string
	Actions  []DefaultAction
}

// DefaultAction is an action with its default inputs. Default inputs
// carry no device prefix ("space", "button3").
type DefaultAction struct {
	Name           string
	Label          string
	Description    string
	Category       string
	ActivationMode string
	OnHold         bool
	Keyboard       string
	Mouse          string
	Joystick       string
	Gamepad        string
}

// Default returns the trimmed default input for a device class.
func (a DefaultAction) Default(t binding.InputType) string {
	switch t {
	case binding.Keyboard:
		return strings.TrimSpace(a.Keyboard)
	case binding.Mouse:
		return strings.TrimSpace(a.Mouse)
	case binding.Joystick:
		return strings.TrimSpace(a.Joystick)
	case binding.Gamepad:
		return strings.TrimSpace(a.Gamepad)
	default:
		return ""
	}
}

// findAction returns the default action, if any.
func (d *Defaults) findAction(mapName, action string) (*DefaultMap, *DefaultAction) {
	if d == nil {
		return nil, nil
	}
	for i := range d.Maps {
		m := &d.Maps[i]
		if m.Name != mapName {
			continue
		}
		for j := range m.Actions {
			if m.Actions[j].Name == action {
				return m, &m.Actions[j]
			}
		}
		return m, nil
	}
	return nil, nil
}

// mapIndex returns the position of a map in the defaults, or -1.
func (d *Defaults) mapIndex(name string) int {
	if d == nil {
		return -1
	}
	for i, m := range d.Maps {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// Profile is the user's set of rebinds.
type Profile struct {
	Name       string
	Categories []string
	Joysticks  []string
	Maps       []ProfileMap
}

// ProfileMap holds the rebound actions of one action map.
type ProfileMap struct {
	Name    string
	Actions []ProfileAction
}

// ProfileAction holds the rebinds of one action.
type ProfileAction struct {
	Name    string
	Rebinds []Rebind
}

// Rebind is one user binding.
type Rebind struct {
	Input          string
	MultiTap       *int
	ActivationMode string
}

// NewProfile returns an empty profile.
func NewProfile(name string) *Profile {
	if name == "" {
		name = "User Customizations"
	}
	return &Profile{Name: name}
}

func (p *Profile) findMap(name string) *ProfileMap {
	for i := range p.Maps {
		if p.Maps[i].Name == name {
			return &p.Maps[i]
		}
	}
	return nil
}

func (p *Profile) findAction(mapName, action string) *ProfileAction {
	m := p.findMap(mapName)
	if m == nil {
		return nil
	}
	for i := range m.Actions {
		if m.Actions[i].Name == action {
			return &m.Actions[i]
		}
	}
	return nil
}

// ensureAction returns the action, creating the map and action as needed.
func (p *Profile) ensureAction(mapName, action string) *ProfileAction {
	m := p.findMap(mapName)
	if m == nil {
		p.Maps = append(p.Maps, ProfileMap{Name: mapName})
		m = &p.Maps[len(p.Maps)-1]
	}
	for i := range m.Actions {
		if m.Actions[i].Name == action {
			return &m.Actions[i]
		}
	}
	m.Actions = append(m.Actions, ProfileAction{Name: action})
	return &m.Actions[len(m.Actions)-1]
}

// removeAction drops an action override. It reports whether one existed.
func (p *Profile) removeAction(mapName, action string) bool {
	m := p.findMap(mapName)
	if m == nil {
		return false
	}
	for i := range m.Actions {
		if m.Actions[i].Name == action {
			m.Actions = append(m.Actions[:i], m.Actions[i+1:]...)
			return true
		}
	}
	return false
}

// hasType reports whether any rebind in the profile, cleared entries
// included, refers to a device of type t.
func (p *Profile) hasType(t binding.InputType) bool {
	for _, m := range p.Maps {
		for _, a := range m.Actions {
			for _, r := range a.Rebinds {
				if dt, _ := binding.DeviceOf(r.Input); dt == t {
					return true
				}
			}
		}
	}
	return false
}

// deviceInstance returns the device part of an input ("js1" for
// "lalt+js1_button3"), lower-cased, with a missing instance read as 1.
func deviceInstance(input string) string {
	_, base := binding.SplitModifiers(strings.ToLower(strings.TrimSpace(input)))
	device, _, _ := strings.Cut(base, "_")
	if device != "" && (device[len(device)-1] < '0' || device[len(device)-1] > '9') {
		device += "1"
	}
	return device
}
