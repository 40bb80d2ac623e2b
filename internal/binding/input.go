package binding

import (
	"strconv"
	"strings"
)

// Modifier names in canonical order.
var modifierOrder = []string{"lalt", "ralt", "lctrl", "rctrl", "lshift", "rshift"}

var modifierLabels = map[string]string{
	"lalt":   "Left Alt",
	"ralt":   "Right Alt",
	"lctrl":  "Left Ctrl",
	"rctrl":  "Right Ctrl",
	"lshift": "Left Shift",
	"rshift": "Right Shift",
}

// IsModifier reports whether s names a modifier ("lalt", "RSHIFT", ...).
func IsModifier(s string) bool {
	_, ok := modifierLabels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ModifierRank returns the canonical sort position of a modifier, or -1.
func ModifierRank(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, m := range modifierOrder {
		if m == s {
			return i
		}
	}
	return -1
}

// ModifierLabel returns the display label of a modifier ("Left Alt").
func ModifierLabel(s string) string {
	if l, ok := modifierLabels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l
	}
	return strings.ToUpper(s)
}

// SplitModifiers separates leading modifier prefixes from the base
// input. Modifiers are returned lower-cased in the order they appear.
//
//	SplitModifiers("LALT+js1_button3") -> ["lalt"], "js1_button3"
func SplitModifiers(input string) ([]string, string) {
	var mods []string
	rest := strings.TrimLeft(input, " ")
	for {
		head, tail, ok := strings.Cut(rest, "+")
		if !ok || !IsModifier(head) {
			break
		}
		mods = append(mods, strings.ToLower(strings.TrimSpace(head)))
		rest = tail
	}
	return mods, rest
}

// IsCleared reports whether input is an explicit "no binding" entry:
// a device prefix followed by an underscore and only whitespace, as in
// "js1_ " or "kb1_".
func IsCleared(input string) bool {
	_, base := SplitModifiers(input)
	idx := strings.IndexByte(base, '_')
	if idx < 0 {
		return false
	}
	return strings.TrimSpace(base[idx+1:]) == ""
}

// IsEmpty reports whether input carries no binding at all.
func IsEmpty(input string) bool {
	return strings.TrimSpace(input) == "" || IsCleared(input)
}

// DeviceOf returns the device class and instance number of a token.
// The instance is 0 when the prefix carries no number ("kb_a").
func DeviceOf(input string) (InputType, int) {
	_, base := SplitModifiers(input)
	base = strings.ToLower(strings.TrimSpace(base))
	prefix, _, _ := strings.Cut(base, "_")

	var t InputType
	var digits string
	switch {
	case strings.HasPrefix(prefix, "mouse"):
		t, digits = Mouse, prefix[len("mouse"):]
	case strings.HasPrefix(prefix, "kb"):
		t, digits = Keyboard, prefix[2:]
	case strings.HasPrefix(prefix, "js"):
		t, digits = Joystick, prefix[2:]
	case strings.HasPrefix(prefix, "gp"):
		t, digits = Gamepad, prefix[2:]
	case strings.HasPrefix(prefix, "mo"):
		t, digits = Mouse, prefix[2:]
	default:
		return Unknown, 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		n = 0
	}
	return t, n
}

// TypeOf classifies a token. Empty and cleared tokens are Unknown.
func TypeOf(input string) InputType {
	if IsEmpty(input) {
		return Unknown
	}
	t, _ := DeviceOf(input)
	return t
}

// DisplayName renders a token for humans:
//
//	"lalt+js1_button3" -> "Left Alt + Joystick 1 - Button 3"
//	"kb1_f1"           -> "Keyboard - F1"
//	"js1_ "            -> "Unbound"
func DisplayName(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || IsCleared(trimmed) {
		return "Unbound"
	}

	mods, base := SplitModifiers(trimmed)
	device, rest, ok := strings.Cut(base, "_")

	var display string
	if !ok {
		display = base
	} else {
		label := formatInput(rest)
		t, n := DeviceOf(base)
		switch t {
		case Keyboard:
			display = "Keyboard - " + label
		case Joystick:
			if n == 0 {
				n = 1
			}
			display = "Joystick " + strconv.Itoa(n) + " - " + label
		case Mouse:
			display = "Mouse - " + label
		case Gamepad:
			display = "Gamepad - " + label
		default:
			display = device + " - " + label
		}
	}

	if len(mods) == 0 {
		return display
	}
	labels := make([]string, len(mods))
	for i, m := range mods {
		labels[i] = ModifierLabel(m)
	}
	return strings.Join(labels, " + ") + " + " + display
}

func formatInput(s string) string {
	s = strings.TrimSpace(s)
	if num, ok := strings.CutPrefix(s, "button"); ok {
		if _, err := strconv.Atoi(num); err == nil {
			return "Button " + num
		}
	}
	return strings.ToUpper(strings.ReplaceAll(s, "_", " "))
}
