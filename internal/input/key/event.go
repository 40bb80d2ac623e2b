package key

import "time"

// DevicePrefix is the prefix of every keyboard token.
const DevicePrefix = "kb1_"

// Event represents a single physical key press.
type Event struct {
	// Code identifies the physical key.
	Code Code

	// Modifiers contains the modifier keys held with Code. It never
	// includes Code itself.
	Modifiers Modifier

	// Released marks a key release. Front-ends that cannot see releases
	// never set it.
	Released bool

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(code Code, mods Modifier) Event {
	return Event{
		Code:      code,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// IsModifierOnly reports whether the pressed key is itself a modifier.
func (e Event) IsModifierOnly() bool {
	return IsModifierCode(e.Code)
}

// Input returns the binding token for the event, e.g. "lalt+kb1_f".
// Releases, modifier-only presses and unknown codes yield ("", false).
func (e Event) Input() (string, bool) {
	if e.Released || e.IsModifierOnly() {
		return "", false
	}
	tok, ok := Token(e.Code)
	if !ok {
		return "", false
	}
	return e.Modifiers.Prefix() + DevicePrefix + tok, true
}

// String returns the event's token, or its raw code when it has none.
func (e Event) String() string {
	if in, ok := e.Input(); ok {
		return in
	}
	return e.Modifiers.Prefix() + string(e.Code)
}
