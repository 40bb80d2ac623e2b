package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into an Event.
//
// Supported formats:
//   - Key codes: "KeyA", "F1", "NumpadEnter"
//   - Tokens: "a", "f1", "np_enter"
//   - With modifiers: "LAlt+KeyF", "ctrl+shift+p", "rshift+f4"
//   - Full tokens: "lalt+kb1_f"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")
	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Event{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m, ok := ParseModifier(p)
		if !ok {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(m)
	}

	code, err := parseKey(keyPart)
	if err != nil {
		return Event{}, err
	}
	return NewEvent(code, mods), nil
}

func parseKey(s string) (Code, error) {
	if _, ok := Token(Code(s)); ok {
		return Code(s), nil
	}
	lower := strings.ToLower(s)
	lower = strings.TrimPrefix(lower, "kb1_")
	lower = strings.TrimPrefix(lower, "kb_")
	if c, ok := CodeForToken(lower); ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, s)
}
