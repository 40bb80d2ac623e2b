package joystick

import (
	"fmt"
	"math"
)

// Default edge detection thresholds.
const (
	// DefaultTriggerThreshold is the deflection that fires a detection.
	DefaultTriggerThreshold = 0.5

	// DefaultResetThreshold is the deflection below which an axis counts
	// as centred and may fire again.
	DefaultResetThreshold = 0.3

	// DefaultMovementThreshold is the minimum travel from the resting
	// position before a detection fires. It keeps axes that rest off
	// centre (throttles, pedals) from firing immediately.
	DefaultMovementThreshold = 0.3
)

// Direction is the sign of an axis detection.
type Direction int

const (
	// Negative is a push towards -1.
	Negative Direction = -1
	// Positive is a push towards +1.
	Positive Direction = 1
)

// String returns "positive" or "negative".
func (d Direction) String() string {
	if d == Negative {
		return "negative"
	}
	return "positive"
}

// Symbol returns "+" or "-".
func (d Direction) Symbol() string {
	if d == Negative {
		return "-"
	}
	return "+"
}

// AxisDetection is a discrete axis movement reported by EdgeDetector.
type AxisDetection struct {
	Instance   int
	DeviceType DeviceType
	Index      int
	Direction  Direction
	Value      float64
}

// Input returns the axis token, e.g. "js1_axis2_negative".
func (d AxisDetection) Input() string {
	return fmt.Sprintf("%s%d_axis%d_%s", d.DeviceType.Prefix(), d.Instance, d.Index, d.Direction)
}

// DisplayName renders the detection, e.g. "Joystick 1 - Y - (Axis 2)".
func (d AxisDetection) DisplayName() string {
	return fmt.Sprintf("%s %d - %s %s (Axis %d)",
		d.DeviceType, d.Instance, AxisName(d.Index), d.Direction.Symbol(), d.Index)
}

type axisKey struct {
	deviceType DeviceType
	instance   int
	index      int
}

type axisState struct {
	lastValue float64
	fired     Direction // 0 when armed
}

// EdgeDetector converts a stream of axis values into detections.
// It is not safe for concurrent use.
type EdgeDetector struct {
	Trigger  float64
	Reset    float64
	Movement float64

	states map[axisKey]*axisState
}

// NewEdgeDetector returns a detector with the default thresholds.
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{
		Trigger:  DefaultTriggerThreshold,
		Reset:    DefaultResetThreshold,
		Movement: DefaultMovementThreshold,
		states:   make(map[axisKey]*axisState),
	}
}

// Feed processes one axis event. It returns a detection when the axis
// crosses the trigger threshold in a direction that has not fired
// since it was last centred.
func (d *EdgeDetector) Feed(e RawEvent) (AxisDetection, bool) {
	if e.Kind != KindAxis {
		return AxisDetection{}, false
	}
	k := axisKey{e.DeviceType, e.Instance, e.Index}
	st, ok := d.states[k]
	if !ok {
		// The first reading is the resting position.
		d.states[k] = &axisState{lastValue: e.Value}
		return AxisDetection{}, false
	}

	v := e.Value
	if math.Abs(v) < d.Reset {
		st.fired = 0
		st.lastValue = v
		return AxisDetection{}, false
	}

	var dir Direction
	switch {
	case v > d.Trigger:
		dir = Positive
	case v < -d.Trigger:
		dir = Negative
	default:
		return AxisDetection{}, false
	}

	if st.fired == dir || math.Abs(v-st.lastValue) <= d.Movement {
		return AxisDetection{}, false
	}
	st.fired = dir
	st.lastValue = v

	return AxisDetection{
		Instance:   e.Instance,
		DeviceType: e.DeviceType,
		Index:      e.Index,
		Direction:  dir,
		Value:      v,
	}, true
}

// Forget drops all axis state so the next reading of each axis is
// treated as its resting position again.
func (d *EdgeDetector) Forget() {
	d.states = make(map[axisKey]*axisState)
}
