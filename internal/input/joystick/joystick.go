package joystick

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DeviceType distinguishes flight sticks from gamepads.
type DeviceType int

const (
	// TypeJoystick is a stick, throttle or pedal set.
	TypeJoystick DeviceType = iota
	// TypeGamepad is an Xbox or PlayStation style controller.
	TypeGamepad
)

// String returns the device type label.
func (t DeviceType) String() string {
	if t == TypeGamepad {
		return "Gamepad"
	}
	return "Joystick"
}

// Prefix returns the token prefix ("js" or "gp").
func (t DeviceType) Prefix() string {
	if t == TypeGamepad {
		return "gp"
	}
	return "js"
}

// Kind is the control that produced an event.
type Kind int

const (
	// KindButton is a digital button.
	KindButton Kind = iota
	// KindAxis is an analogue axis.
	KindAxis
	// KindHat is a point-of-view hat switch.
	KindHat
)

// HatDirection is a hat switch direction.
type HatDirection string

// Hat directions.
const (
	HatUp    HatDirection = "up"
	HatDown  HatDirection = "down"
	HatLeft  HatDirection = "left"
	HatRight HatDirection = "right"
)

// RawEvent is a single event read from a controller.
type RawEvent struct {
	// Instance is the 1-based device number.
	Instance int

	// DeviceType is the device class.
	DeviceType DeviceType

	// DeviceName is the product name.
	DeviceName string

	// Kind is the control kind.
	Kind Kind

	// Index is the 1-based button, axis or hat number.
	Index int

	// Pressed is true for a button or hat press.
	Pressed bool

	// Value is the axis position in [-1, 1].
	Value float64

	// Hat is the hat direction for KindHat events.
	Hat HatDirection

	// Timestamp is when the event was read.
	Timestamp time.Time
}

// Prefix returns the device prefix with instance ("js2").
func (e RawEvent) Prefix() string {
	return e.DeviceType.Prefix() + strconv.Itoa(e.Instance)
}

// Input returns the token of a button or hat press. Axis events and
// releases have no token on their own.
func (e RawEvent) Input() (string, bool) {
	if e.Instance < 1 || !e.Pressed {
		return "", false
	}
	switch e.Kind {
	case KindButton:
		if e.Index < 1 {
			return "", false
		}
		return fmt.Sprintf("%s_button%d", e.Prefix(), e.Index), true
	case KindHat:
		if e.Hat == "" {
			return "", false
		}
		idx := e.Index
		if idx < 1 {
			idx = 1
		}
		return fmt.Sprintf("%s_hat%d_%s", e.Prefix(), idx, e.Hat), true
	default:
		return "", false
	}
}

// DisplayName renders a button or hat press for humans.
func (e RawEvent) DisplayName() string {
	label := e.DeviceType.String() + " " + strconv.Itoa(e.Instance)
	switch e.Kind {
	case KindButton:
		return fmt.Sprintf("%s - Button %d", label, e.Index)
	case KindHat:
		return fmt.Sprintf("%s - Hat %d %s", label, max(e.Index, 1), strings.ToUpper(string(e.Hat)))
	default:
		return fmt.Sprintf("%s - %s", label, AxisName(e.Index))
	}
}

var axisNames = map[int]string{
	1: "X",
	2: "Y",
	3: "RotX",
	4: "RotY",
	5: "Z",
	6: "RotZ",
}

// AxisName returns the conventional name of a 1-based axis index.
// Axes beyond the standard six are named "Axis<N>".
func AxisName(index int) string {
	if n, ok := axisNames[index]; ok {
		return n
	}
	return "Axis" + strconv.Itoa(index)
}

// AxisIndex is the inverse of AxisName for the standard axes.
func AxisIndex(name string) (int, bool) {
	for i, n := range axisNames {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return 0, false
}

// Info describes a connected controller.
type Info struct {
	ID          int
	Name        string
	Connected   bool
	ButtonCount int
	AxisCount   int
	HatCount    int
	Type        DeviceType
}

var joystickIndicators = []string{
	"joystick", "hotas", "throttle", "gladiator", "warthog", "t16000",
	"vkb", "virpil", "thrustmaster", "saitek", "x52", "x56",
}

var gamepadIndicators = []string{
	"xbox", "playstation", "dualshock", "dualsense", "ps3", "ps4", "ps5",
	"controller for windows", "gamepad", "xinput",
}

// ClassifyDevice decides from a product name whether a controller is a
// gamepad. Flight-stick vendors win over gamepad keywords and unknown
// devices are joysticks.
func ClassifyDevice(name string) DeviceType {
	lower := strings.ToLower(name)
	for _, ind := range joystickIndicators {
		if strings.Contains(lower, ind) {
			return TypeJoystick
		}
	}
	for _, ind := range gamepadIndicators {
		if strings.Contains(lower, ind) {
			return TypeGamepad
		}
	}
	return TypeJoystick
}
