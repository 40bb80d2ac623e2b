package binding

import "strings"

// InputType classifies the device an input token belongs to.
type InputType int

const (
	// Unknown is used for empty, cleared or unrecognised tokens.
	Unknown InputType = iota
	// Keyboard is a kb<N>_ token.
	Keyboard
	// Mouse is a mouse<N>_ token.
	Mouse
	// Joystick is a js<N>_ token.
	Joystick
	// Gamepad is a gp<N>_ token.
	Gamepad
)

// String returns the input type name.
func (t InputType) String() string {
	switch t {
	case Keyboard:
		return "Keyboard"
	case Mouse:
		return "Mouse"
	case Joystick:
		return "Joystick"
	case Gamepad:
		return "Gamepad"
	default:
		return "Unknown"
	}
}

// Prefix returns the device prefix without instance number ("kb", "js", ...).
func (t InputType) Prefix() string {
	switch t {
	case Keyboard:
		return "kb"
	case Mouse:
		return "mouse"
	case Joystick:
		return "js"
	case Gamepad:
		return "gp"
	default:
		return ""
	}
}

// ParseInputType parses a type name case-insensitively.
func ParseInputType(s string) InputType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keyboard", "kb":
		return Keyboard
	case "mouse":
		return Mouse
	case "joystick", "js":
		return Joystick
	case "gamepad", "gp":
		return Gamepad
	default:
		return Unknown
	}
}

// Binding is one input attached to an action.
type Binding struct {
	// Input is the raw token as stored ("lalt+js1_button3").
	Input string

	// DisplayName is the human-readable rendering of Input.
	DisplayName string

	// Type is the device class of Input.
	Type InputType

	// IsDefault is true for bindings that come from the defaults
	// database rather than the user's profile. Cleared entries are
	// also flagged default because they override one.
	IsDefault bool

	// MultiTap is the tap count, or nil for a single press.
	MultiTap *int

	// ActivationMode is the activation mode override ("press", "hold", ...).
	ActivationMode string

	// OriginalDefault is the display name of the default a cleared
	// binding overrides.
	OriginalDefault string
}

// Action is one bindable game action.
type Action struct {
	Name         string
	Label        string
	Description  string
	Category     string
	OnHold       bool
	IsCustomized bool
	Bindings     []Binding
}

// DisplayLabel returns the label, or a formatted name when no label is set.
func (a Action) DisplayLabel() string {
	if a.Label != "" && !strings.HasPrefix(a.Label, "@") {
		return a.Label
	}
	return FormatDisplayName(a.Name)
}

// ActionMap groups related actions.
type ActionMap struct {
	Name     string
	Label    string
	Category string
	Actions  []Action
}

// DisplayLabel returns the label, or a formatted name when no label is set.
func (m ActionMap) DisplayLabel() string {
	if m.Label != "" && !strings.HasPrefix(m.Label, "@") {
		return m.Label
	}
	return FormatDisplayName(m.Name)
}

// Profile is the merged binding tree.
type Profile struct {
	Name       string
	ActionMaps []ActionMap
}

// FindAction returns the action with the given map and action name.
func (p Profile) FindAction(mapName, actionName string) (Action, bool) {
	for _, m := range p.ActionMaps {
		if m.Name != mapName {
			continue
		}
		for _, a := range m.Actions {
			if a.Name == actionName {
				return a, true
			}
		}
	}
	return Action{}, false
}

// Categories returns the distinct action map categories in order of
// first appearance.
func (p Profile) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range p.ActionMaps {
		if m.Category == "" || seen[m.Category] {
			continue
		}
		seen[m.Category] = true
		out = append(out, m.Category)
	}
	return out
}
