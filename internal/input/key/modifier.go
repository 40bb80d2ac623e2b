package key

import "strings"

// Modifier is a set of held modifier keys. Left and right keys are
// distinct because the game binds them separately.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModLAlt is the left Alt key.
	ModLAlt Modifier = 1 << iota
	// ModRAlt is the right Alt key (AltGr).
	ModRAlt
	// ModLCtrl is the left Control key.
	ModLCtrl
	// ModRCtrl is the right Control key.
	ModRCtrl
	// ModLShift is the left Shift key.
	ModLShift
	// ModRShift is the right Shift key.
	ModRShift
)

// canonical order used when rendering a modifier prefix
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModLAlt, "lalt"},
	{ModRAlt, "ralt"},
	{ModLCtrl, "lctrl"},
	{ModRCtrl, "rctrl"},
	{ModLShift, "lshift"},
	{ModRShift, "rshift"},
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Names returns the modifier tokens in canonical order.
func (m Modifier) Names() []string {
	var names []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			names = append(names, o.name)
		}
	}
	return names
}

// String returns the modifiers joined with "+" ("lalt+rshift").
func (m Modifier) String() string {
	return strings.Join(m.Names(), "+")
}

// Prefix returns the modifiers as a token prefix ("lalt+"), or "" when empty.
func (m Modifier) Prefix() string {
	if m.IsEmpty() {
		return ""
	}
	return m.String() + "+"
}

// ParseModifier parses a modifier name. Bare "alt", "ctrl" and "shift"
// mean the left-hand key.
func ParseModifier(s string) (Modifier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lalt", "alt", "altleft":
		return ModLAlt, true
	case "ralt", "altright", "altgr":
		return ModRAlt, true
	case "lctrl", "ctrl", "control", "controlleft":
		return ModLCtrl, true
	case "rctrl", "controlright":
		return ModRCtrl, true
	case "lshift", "shift", "shiftleft":
		return ModLShift, true
	case "rshift", "shiftright":
		return ModRShift, true
	default:
		return ModNone, false
	}
}
