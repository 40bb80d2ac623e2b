package binding

import "testing"

func TestSplitModifiers(t *testing.T) {
	tests := []struct {
		input string
		mods  []string
		base  string
	}{
		{"js1_button3", nil, "js1_button3"},
		{"lalt+js1_button3", []string{"lalt"}, "js1_button3"},
		{"LALT+RCTRL+kb1_a", []string{"lalt", "rctrl"}, "kb1_a"},
		{"foo+kb1_a", nil, "foo+kb1_a"},
		{"", nil, ""},
	}

	for _, tt := range tests {
		mods, base := SplitModifiers(tt.input)
		if base != tt.base {
			t.Errorf("SplitModifiers(%q) base = %q, want %q", tt.input, base, tt.base)
		}
		if len(mods) != len(tt.mods) {
			t.Errorf("SplitModifiers(%q) mods = %v, want %v", tt.input, mods, tt.mods)
			continue
		}
		for i := range mods {
			if mods[i] != tt.mods[i] {
				t.Errorf("SplitModifiers(%q) mods[%d] = %q, want %q", tt.input, i, mods[i], tt.mods[i])
			}
		}
	}
}

func TestIsCleared(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"js1_ ", true},
		{"js1_", true},
		{"kb1_  ", true},
		{"lalt+js1_ ", true},
		{"js1_button1", false},
		{"", false},
		{"nounderscore", false},
	}

	for _, tt := range tests {
		if got := IsCleared(tt.input); got != tt.want {
			t.Errorf("IsCleared(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDeviceOfAndTypeOf(t *testing.T) {
	tests := []struct {
		input    string
		wantType InputType
		wantN    int
		typeOf   InputType
	}{
		{"kb1_a", Keyboard, 1, Keyboard},
		{"kb_a", Keyboard, 0, Keyboard},
		{"js2_button7", Joystick, 2, Joystick},
		{"rshift+gp1_a", Gamepad, 1, Gamepad},
		{"mouse1_mouse2", Mouse, 1, Mouse},
		{"mo1_mouse2", Mouse, 1, Mouse},
		{"js1_ ", Joystick, 1, Unknown},
		{"xyz_1", Unknown, 0, Unknown},
	}

	for _, tt := range tests {
		gotType, gotN := DeviceOf(tt.input)
		if gotType != tt.wantType || gotN != tt.wantN {
			t.Errorf("DeviceOf(%q) = %v,%d want %v,%d", tt.input, gotType, gotN, tt.wantType, tt.wantN)
		}
		if got := TypeOf(tt.input); got != tt.typeOf {
			t.Errorf("TypeOf(%q) = %v, want %v", tt.input, got, tt.typeOf)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"js1_button3", "Joystick 1 - Button 3"},
		{"lalt+js2_button3", "Left Alt + Joystick 2 - Button 3"},
		{"lctrl+rshift+kb1_f1", "Left Ctrl + Right Shift + Keyboard - F1"},
		{"js1_hat1_up", "Joystick 1 - HAT1 UP"},
		{"mouse1_mwheel_up", "Mouse - MWHEEL UP"},
		{"gp1_thumbl", "Gamepad - THUMBL"},
		{"js1_ ", "Unbound"},
		{"", "Unbound"},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatDisplayName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"v_toggle_mfd_power", "Toggle MFD Power"},
		{"spaceship_general", "Spaceship General"},
		{"pc_SelectTarget", "Select Target"},
		{"v_strafe_up", "Strafe UP"},
		{"ui_HTMLParser", "HTML Parser"},
		{"v_ifcs_toggle_vtol", "IFCS Toggle VTOL"},
		{"spectate_1to1", "1:1"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatDisplayName(tt.name); got != tt.want {
			t.Errorf("FormatDisplayName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestProfileLookups(t *testing.T) {
	p := Profile{ActionMaps: []ActionMap{
		{Name: "spaceship_general", Category: "Flight", Actions: []Action{{Name: "v_eject"}}},
		{Name: "spaceship_weapons", Category: "Combat"},
		{Name: "spaceship_movement", Category: "Flight"},
	}}

	if _, ok := p.FindAction("spaceship_general", "v_eject"); !ok {
		t.Error("FindAction did not find v_eject")
	}
	if _, ok := p.FindAction("spaceship_weapons", "v_eject"); ok {
		t.Error("FindAction matched the wrong map")
	}

	cats := p.Categories()
	if len(cats) != 2 || cats[0] != "Flight" || cats[1] != "Combat" {
		t.Errorf("Categories() = %v", cats)
	}
}

func TestDisplayLabelFallback(t *testing.T) {
	a := Action{Name: "v_eject", Label: "@ui_CIEject"}
	if got := a.DisplayLabel(); got != "Eject" {
		t.Errorf("DisplayLabel() = %q, want Eject", got)
	}
	a.Label = "Eject Seat"
	if got := a.DisplayLabel(); got != "Eject Seat" {
		t.Errorf("DisplayLabel() = %q", got)
	}
}

func TestParseInputType(t *testing.T) {
	for _, it := range []InputType{Keyboard, Mouse, Joystick, Gamepad} {
		if got := ParseInputType(it.String()); got != it {
			t.Errorf("ParseInputType(%q) = %v", it.String(), got)
		}
	}
	if ParseInputType("wheel") != Unknown {
		t.Error("unknown type name should parse as Unknown")
	}
}
