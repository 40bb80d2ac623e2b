package mouse

import (
	"time"

	"github.com/dshills/stickbind/internal/input/key"
)

// DevicePrefix is the prefix of every mouse token.
const DevicePrefix = "mouse1_"

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonScrollUp indicates scroll wheel up.
	ButtonScrollUp
	// ButtonScrollDown indicates scroll wheel down.
	ButtonScrollDown
	// ButtonBack is the back navigation button (mouse button 4).
	ButtonBack
	// ButtonForward is the forward navigation button (mouse button 5).
	ButtonForward
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return "none"
	}
}

// IsScroll returns true if this is a scroll button.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown
}

// Token returns the binding token for the button without device prefix.
func (b Button) Token() (string, bool) {
	switch b {
	case ButtonLeft:
		return "mouse1", true
	case ButtonRight:
		return "mouse2", true
	case ButtonMiddle:
		return "mouse3", true
	case ButtonBack:
		return "mouse4", true
	case ButtonForward:
		return "mouse5", true
	case ButtonScrollUp:
		return "mwheel_up", true
	case ButtonScrollDown:
		return "mwheel_down", true
	default:
		return "", false
	}
}

// FromIndex maps a 0-based pointer button index (0 left, 1 middle,
// 2 right, 3 back, 4 forward) to a Button.
func FromIndex(i int) Button {
	switch i {
	case 0:
		return ButtonLeft
	case 1:
		return ButtonMiddle
	case 2:
		return ButtonRight
	case 3:
		return ButtonBack
	case 4:
		return ButtonForward
	default:
		return ButtonNone
	}
}

// Event is a single mouse button press or wheel notch.
type Event struct {
	Button    Button
	Modifiers key.Modifier
	Timestamp time.Time
}

// NewEvent creates a mouse event with the current timestamp.
func NewEvent(b Button, mods key.Modifier) Event {
	return Event{Button: b, Modifiers: mods, Timestamp: time.Now()}
}

// Input returns the binding token for the event, e.g. "lctrl+mouse1_mouse2".
func (e Event) Input() (string, bool) {
	tok, ok := e.Button.Token()
	if !ok {
		return "", false
	}
	return e.Modifiers.Prefix() + DevicePrefix + tok, true
}
