package ident

// AxisConverter names numeric axes. Implementations return ok=false (or
// an empty name) to leave the axis untouched.
type AxisConverter interface {
	ConvertAxis(device string, index int, direction string) (name string, ok bool)
}

// AxisConverterFunc adapts a function to AxisConverter.
type AxisConverterFunc func(device string, index int, direction string) (string, bool)

// ConvertAxis implements AxisConverter.
func (f AxisConverterFunc) ConvertAxis(device string, index int, direction string) (string, bool) {
	return f(device, index, direction)
}

// TableConverter maps axis indexes to names, ignoring device and direction.
type TableConverter map[int]string

// DefaultAxisTable is the standard six-axis layout plus two sliders.
var DefaultAxisTable = TableConverter{
	1: "x",
	2: "y",
	3: "rotx",
	4: "roty",
	5: "z",
	6: "rotz",
	7: "slider1",
	8: "slider2",
}

// ConvertAxis implements AxisConverter.
func (t TableConverter) ConvertAxis(_ string, index int, _ string) (string, bool) {
	name, ok := t[index]
	return name, ok
}

// Chain tries each converter in order and returns the first answer.
type Chain []AxisConverter

// ConvertAxis implements AxisConverter.
func (c Chain) ConvertAxis(device string, index int, direction string) (string, bool) {
	for _, conv := range c {
		if conv == nil {
			continue
		}
		if name, ok := conv.ConvertAxis(device, index, direction); ok && name != "" {
			return name, true
		}
	}
	return "", false
}
