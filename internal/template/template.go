package template

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Shape identifies the file layout a template was read from.
type Shape int

const (
	// ShapeLegacy is the single-stick layout.
	ShapeLegacy Shape = iota
	// ShapeDual is the left/right stick layout.
	ShapeDual
)

// String returns the shape name.
func (s Shape) String() string {
	if s == ShapeDual {
		return "dual"
	}
	return "legacy"
}

// Side names a stick position.
type Side string

// Stick positions.
const (
	SideSingle Side = "single"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Template is a resolved overlay template.
type Template struct {
	Name   string
	Shape  Shape
	Sticks []Stick
}

// Stick is one pictured joystick.
type Stick struct {
	Side Side

	// Prefix is the device prefix the stick's buttons are read on
	// ("js1").
	Prefix string

	Image   string
	Buttons []Button
}

// Button is a labelled spot on a stick image. Number addresses a
// numbered button; Input addresses anything else (hats, axes) by
// token. Number wins when both are set.
type Button struct {
	ID     string
	Label  string
	Number int
	Input  string
	X, Y   float64
}

// Errors returned by Parse.
var (
	ErrInvalidJSON  = errors.New("template is not valid JSON")
	ErrUnknownShape = errors.New("template has neither buttons nor joystick sections")
)

// Parse resolves template JSON of either shape.
func Parse(data []byte) (Template, error) {
	if !gjson.ValidBytes(data) {
		return Template{}, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	t := Template{Name: root.Get("name").String()}

	left, right := root.Get("leftJoystick"), root.Get("rightJoystick")
	switch {
	case left.Exists() || right.Exists():
		t.Shape = ShapeDual
		if left.Exists() {
			t.Sticks = append(t.Sticks, parseStick(SideLeft, left, 1))
		}
		if right.Exists() {
			t.Sticks = append(t.Sticks, parseStick(SideRight, right, 2))
		}
	case root.Get("buttons").IsArray():
		t.Shape = ShapeLegacy
		t.Sticks = []Stick{parseStick(SideSingle, root, 1)}
	default:
		return Template{}, ErrUnknownShape
	}
	return t, nil
}

// LoadFile reads and parses a template file.
func LoadFile(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	t, err := Parse(data)
	if err != nil {
		return Template{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func parseStick(side Side, r gjson.Result, defaultNumber int64) Stick {
	num := defaultNumber
	if n := r.Get("joystickNumber"); n.Exists() && n.Int() > 0 {
		num = n.Int()
	}
	image := r.Get("imagePath").String()
	if image == "" {
		image = r.Get("image").String()
	}

	s := Stick{
		Side:   side,
		Prefix: fmt.Sprintf("js%d", num),
		Image:  image,
	}
	r.Get("buttons").ForEach(func(_, b gjson.Result) bool {
		s.Buttons = append(s.Buttons, parseButton(b))
		return true
	})
	return s
}

func parseButton(b gjson.Result) Button {
	btn := Button{
		ID:    b.Get("id").String(),
		Label: b.Get("name").String(),
		Input: strings.TrimSpace(b.Get("input").String()),
		X:     b.Get("position.x").Float(),
		Y:     b.Get("position.y").Float(),
	}
	if btn.Label == "" {
		btn.Label = b.Get("label").String()
	}

	// Older files store a button number, or a token, under buttonId.
	id := b.Get("buttonId")
	switch id.Type {
	case gjson.Number:
		btn.Number = int(id.Int())
	case gjson.String:
		if btn.Input == "" {
			btn.Input = strings.TrimSpace(id.String())
		}
	}
	return btn
}

// Encode writes t in the dual-stick shape. A legacy template is
// written with its single stick on the left.
func Encode(t Template) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, v)
		}
	}

	set("name", t.Name)
	for i, s := range t.Sticks {
		key := "leftJoystick"
		if s.Side == SideRight || (s.Side == SideSingle && i > 0) {
			key = "rightJoystick"
		}
		num, _ := strconv.Atoi(strings.TrimPrefix(s.Prefix, "js"))
		set(key+".joystickNumber", num)
		set(key+".imagePath", s.Image)
		set(key+".buttons", []any{})
		for _, b := range s.Buttons {
			btn := map[string]any{
				"id":       b.ID,
				"name":     b.Label,
				"position": map[string]float64{"x": b.X, "y": b.Y},
			}
			if b.Number > 0 {
				btn["buttonId"] = b.Number
			}
			if b.Input != "" {
				btn["input"] = b.Input
			}
			set(key+".buttons.-1", btn)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return pretty.Pretty(out), nil
}
