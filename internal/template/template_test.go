package template

import (
	"errors"
	"testing"

	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/binding/match"
)

const legacyJSON = `{
  "name": "VKB Gladiator",
  "imagePath": "gladiator.png",
  "buttons": [
    {"id": "trigger", "name": "Trigger", "buttonId": 1, "position": {"x": 120, "y": 40}},
    {"id": "hat-up", "name": "Hat Up", "buttonId": "js1_hat1_up", "position": {"x": 80, "y": 20}}
  ]
}`

const dualJSON = `{
  "name": "HOSAS",
  "leftJoystick": {
    "imagePath": "left.png",
    "buttons": [
      {"id": "l-trigger", "name": "Trigger", "buttonId": 1}
    ]
  },
  "rightJoystick": {
    "imagePath": "right.png",
    "buttons": [
      {"id": "r-hat", "name": "Hat", "input": "js1_hat1_left"},
      {"id": "r-b7", "name": "Pinky", "buttonId": 7}
    ]
  }
}`

func TestParse_Legacy(t *testing.T) {
	tpl, err := Parse([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tpl.Shape != ShapeLegacy {
		t.Errorf("Shape = %s, want legacy", tpl.Shape)
	}
	if tpl.Name != "VKB Gladiator" {
		t.Errorf("Name = %q", tpl.Name)
	}
	if len(tpl.Sticks) != 1 {
		t.Fatalf("Sticks = %d, want 1", len(tpl.Sticks))
	}

	s := tpl.Sticks[0]
	if s.Side != SideSingle || s.Prefix != "js1" || s.Image != "gladiator.png" {
		t.Errorf("stick = %+v", s)
	}
	if len(s.Buttons) != 2 {
		t.Fatalf("Buttons = %d, want 2", len(s.Buttons))
	}
	if b := s.Buttons[0]; b.Number != 1 || b.Label != "Trigger" || b.X != 120 || b.Y != 40 {
		t.Errorf("button 0 = %+v", b)
	}
	if b := s.Buttons[1]; b.Number != 0 || b.Input != "js1_hat1_up" {
		t.Errorf("button 1 = %+v", b)
	}
}

func TestParse_Dual(t *testing.T) {
	tpl, err := Parse([]byte(dualJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tpl.Shape != ShapeDual {
		t.Errorf("Shape = %s, want dual", tpl.Shape)
	}
	if len(tpl.Sticks) != 2 {
		t.Fatalf("Sticks = %d, want 2", len(tpl.Sticks))
	}

	tests := []struct {
		side    Side
		prefix  string
		image   string
		buttons int
	}{
		{SideLeft, "js1", "left.png", 1},
		{SideRight, "js2", "right.png", 2},
	}
	for i, tt := range tests {
		s := tpl.Sticks[i]
		if s.Side != tt.side || s.Prefix != tt.prefix || s.Image != tt.image || len(s.Buttons) != tt.buttons {
			t.Errorf("stick %d = %+v", i, s)
		}
	}
}

func TestParse_JoystickNumber(t *testing.T) {
	tpl, err := Parse([]byte(`{"rightJoystick": {"joystickNumber": 3, "buttons": []}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(tpl.Sticks) != 1 || tpl.Sticks[0].Prefix != "js3" {
		t.Errorf("sticks = %+v, want one on js3", tpl.Sticks)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"invalid", `{"name":`, ErrInvalidJSON},
		{"no sections", `{"name": "empty"}`, ErrUnknownShape},
		{"buttons not array", `{"buttons": {}}`, ErrUnknownShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncode_ResolvesToDual(t *testing.T) {
	legacy, err := Parse([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := Encode(legacy)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(encoded) error = %v\n%s", err, data)
	}
	if got.Shape != ShapeDual {
		t.Errorf("encoded shape = %s, want dual", got.Shape)
	}
	if len(got.Sticks) != 1 || got.Sticks[0].Side != SideLeft {
		t.Fatalf("sticks = %+v", got.Sticks)
	}
	s := got.Sticks[0]
	if s.Prefix != "js1" || s.Image != "gladiator.png" || len(s.Buttons) != 2 {
		t.Errorf("stick = %+v", s)
	}
	if s.Buttons[0].Number != 1 || s.Buttons[1].Input != "js1_hat1_up" || s.Buttons[0].X != 120 {
		t.Errorf("buttons = %+v", s.Buttons)
	}
}

type recordingSearcher struct {
	queries []match.Query
}

func (r *recordingSearcher) Search(q match.Query, f match.Filters) []match.Match {
	r.queries = append(r.queries, q)
	return nil
}

func TestOverlay_Queries(t *testing.T) {
	tpl, err := Parse([]byte(dualJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rec := &recordingSearcher{}
	out := Overlay(tpl, rec, match.Filters{})
	if len(out) != 3 {
		t.Fatalf("Overlay() = %d buttons, want 3", len(out))
	}

	want := []match.Query{
		{Button: 1, Prefix: "js1"},
		{Input: "js2_hat1_left"},
		{Button: 7, Prefix: "js2"},
	}
	for i, q := range want {
		if rec.queries[i] != q {
			t.Errorf("query %d = %+v, want %+v", i, rec.queries[i], q)
		}
	}
}

type staticSource binding.Profile

func (s staticSource) Profile() binding.Profile { return binding.Profile(s) }

func TestOverlay_Matches(t *testing.T) {
	src := staticSource{ActionMaps: []binding.ActionMap{{
		Name: "spaceship_weapons",
		Actions: []binding.Action{
			{Name: "v_attack1_group1", Bindings: []binding.Binding{{Input: "js1_button1", IsDefault: true}}},
			{Name: "v_weapon_cycle", Bindings: []binding.Binding{{Input: "js1_hat1_up"}}},
			{Name: "v_strafe_up", Bindings: []binding.Binding{{Input: "js1_axis1_positive"}}},
		},
	}}}

	tpl, err := Parse([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	out := Overlay(tpl, match.New(src), match.Filters{})
	if len(out) != 2 {
		t.Fatalf("Overlay() = %d buttons, want 2", len(out))
	}
	if m := out[0].Matches; len(m) != 1 || m[0].Action != "v_attack1_group1" {
		t.Errorf("trigger matches = %+v", m)
	}
	if m := out[1].Matches; len(m) != 1 || m[0].Action != "v_weapon_cycle" {
		t.Errorf("hat matches = %+v", m)
	}

	hidden := Overlay(tpl, match.New(src), match.Filters{HideDefaults: true})
	if len(hidden[0].Matches) != 0 {
		t.Errorf("HideDefaults kept %+v", hidden[0].Matches)
	}
}
