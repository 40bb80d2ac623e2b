package key

import (
	"strconv"
	"strings"
)

// Code is a physical key code such as "KeyA" or "ShiftLeft".
type Code string

var codeTokens = map[Code]string{
	"Space":        "space",
	"Enter":        "enter",
	"Escape":       "escape",
	"Tab":          "tab",
	"Backspace":    "backspace",
	"Insert":       "insert",
	"Delete":       "delete",
	"Home":         "home",
	"End":          "end",
	"PageUp":       "pgup",
	"PageDown":     "pgdn",
	"ArrowUp":      "up",
	"ArrowDown":    "down",
	"ArrowLeft":    "left",
	"ArrowRight":   "right",
	"Minus":        "minus",
	"Equal":        "equals",
	"BracketLeft":  "lbracket",
	"BracketRight": "rbracket",
	"Backslash":    "backslash",
	"Semicolon":    "semicolon",
	"Quote":        "apostrophe",
	"Comma":        "comma",
	"Period":       "period",
	"Slash":        "slash",
	"Backquote":    "grave",
	"CapsLock":     "capslock",
	"ScrollLock":   "scrolllock",
	"NumLock":      "numlock",
	"PrintScreen":  "print",
	"Pause":        "pause",

	"NumpadAdd":      "np_add",
	"NumpadSubtract": "np_subtract",
	"NumpadMultiply": "np_multiply",
	"NumpadDivide":   "np_divide",
	"NumpadDecimal":  "np_period",
	"NumpadEnter":    "np_enter",
}

var modifierCodes = map[Code]Modifier{
	"AltLeft":      ModLAlt,
	"AltRight":     ModRAlt,
	"ControlLeft":  ModLCtrl,
	"ControlRight": ModRCtrl,
	"ShiftLeft":    ModLShift,
	"ShiftRight":   ModRShift,
}

// Token returns the binding token for a key code, without device prefix.
//
//	Token("KeyA")    -> "a", true
//	Token("Numpad7") -> "np_7", true
func Token(code Code) (string, bool) {
	s := string(code)
	if tok, ok := codeTokens[code]; ok {
		return tok, true
	}
	if m, ok := modifierCodes[code]; ok {
		return m.String(), true
	}
	if rest, ok := strings.CutPrefix(s, "Key"); ok && len(rest) == 1 && rest[0] >= 'A' && rest[0] <= 'Z' {
		return strings.ToLower(rest), true
	}
	if rest, ok := strings.CutPrefix(s, "Digit"); ok && len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9' {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(s, "Numpad"); ok && len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9' {
		return "np_" + rest, true
	}
	if rest, ok := strings.CutPrefix(s, "F"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 24 {
			return "f" + rest, true
		}
	}
	return "", false
}

// CodeForToken is the inverse of Token.
func CodeForToken(tok string) (Code, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	for c, t := range codeTokens {
		if t == tok {
			return c, true
		}
	}
	for c, m := range modifierCodes {
		if m.String() == tok {
			return c, true
		}
	}
	switch {
	case len(tok) == 1 && tok[0] >= 'a' && tok[0] <= 'z':
		return Code("Key" + strings.ToUpper(tok)), true
	case len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9':
		return Code("Digit" + tok), true
	case strings.HasPrefix(tok, "np_") && len(tok) == 4 && tok[3] >= '0' && tok[3] <= '9':
		return Code("Numpad" + tok[3:]), true
	case strings.HasPrefix(tok, "f"):
		if n, err := strconv.Atoi(tok[1:]); err == nil && n >= 1 && n <= 24 {
			return Code("F" + tok[1:]), true
		}
	}
	return "", false
}

// IsModifierCode reports whether code is one of the six modifier keys.
func IsModifierCode(code Code) bool {
	_, ok := modifierCodes[code]
	return ok
}

// ModifierOf returns the modifier flag of a modifier key code.
func ModifierOf(code Code) (Modifier, bool) {
	m, ok := modifierCodes[code]
	return m, ok
}
