package ident

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ctx  Context
		want Canonical
		ok   bool
	}{
		{"lowercase and trim", "  JS1_Button3 ", Context{}, "js1_button3", true},
		{"keyboard index", "kb_a", Context{}, "kb1_a", true},
		{"modifier order", "rshift+LALT+kb1_a", Context{}, "lalt+rshift+kb1_a", true},
		{"duplicate modifier", "lalt+lalt+kb1_a", Context{}, "lalt+kb1_a", true},
		{"suffix modifier", "kb_u+lshift", Context{}, "lshift+kb1_u", true},
		{"unknown prefix kept", "foo+lctrl+js1_button1", Context{}, "lctrl+foo+js1_button1", true},
		{"last prefixed segment is base", "np_add+lalt+kb1_x", Context{}, "lalt+np_add+kb1_x", true},
		{"mouse short prefix", "mo1_mouse2", Context{}, "mouse1_mouse2", true},
		{"mouse", "mouse1_mwheel_up", Context{}, "mouse1_mwheel_up", true},
		{"hat", "js2_hat1_up", Context{}, "js2_hat1_up", true},
		{"target prefix", "js1_button4", Context{TargetPrefix: "js2"}, "js2_button4", true},
		{"target prefix with modifier", "lalt+js1_button4", Context{TargetPrefix: "JS3_"}, "lalt+js3_button4", true},
		{"target leaves keyboard", "kb1_a", Context{TargetPrefix: "js2"}, "kb1_a", true},
		{"invalid target ignored", "js1_button4", Context{TargetPrefix: "kb2"}, "js1_button4", true},
		{"axis converted", "js1_axis1_positive", Context{Converter: DefaultAxisTable}, "js1_x", true},
		{"axis short direction", "js2_axis6_neg", Context{Converter: DefaultAxisTable}, "js2_rotz", true},
		{"axis unknown index", "js1_axis9_positive", Context{Converter: DefaultAxisTable}, "js1_axis9_positive", true},
		{"axis without converter", "js1_axis1_positive", Context{}, "js1_axis1_positive", true},
		{"empty", "", Context{}, "", false},
		{"whitespace", "   ", Context{}, "", false},
		{"cleared", "js1_ ", Context{}, "", false},
		{"modifier only", "lalt", Context{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw, tt.ctx)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Normalize(%q) = %q,%v want %q,%v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	ctxs := []Context{
		{},
		{TargetPrefix: "js2"},
		{Converter: DefaultAxisTable},
		{TargetPrefix: "gp1", Converter: DefaultAxisTable},
	}
	inputs := []string{
		"KB_A", "rshift+lalt+kb1_f1", "kb_u+lshift", "js1_axis3_negative",
		"lctrl+js4_button12", "mo1_mouse3", "foo+bar+js1_hat1_left", "gp2_thumbl",
		"js1_axis12", "lalt+rctrl+lshift+mouse1_mwheel_down",
		"foo_bar+js1_button1", "js1_button1+kb1_a", "lalt+np_add+kb1_x",
	}

	for _, ctx := range ctxs {
		for _, in := range inputs {
			once, ok := Normalize(in, ctx)
			if !ok {
				t.Fatalf("Normalize(%q) failed", in)
			}
			twice, ok := Normalize(string(once), ctx)
			if !ok || twice != once {
				t.Errorf("not idempotent for %q (ctx %+v): %q -> %q", in, ctx, once, twice)
			}
		}
	}
}

func TestNormalize_ConverterOutputSanitised(t *testing.T) {
	numeric := AxisConverterFunc(func(string, int, string) (string, bool) {
		return "axis2", true
	})
	got, ok := Normalize("js1_axis1_positive", Context{Converter: numeric})
	if !ok || got != "js1_axis1_positive" {
		t.Errorf("numeric converter output accepted: %q", got)
	}

	chain := Chain{TableConverter{}, nil, DefaultAxisTable}
	got, _ = Normalize("js1_axis2", Context{Converter: chain})
	if got != "js1_y" {
		t.Errorf("chain = %q, want js1_y", got)
	}
}

func TestDevicePrefixHelpers(t *testing.T) {
	c := Canonical("lalt+js2_button1")
	if got := DevicePrefix(c); got != "js2" {
		t.Errorf("DevicePrefix() = %q", got)
	}
	if got := WithDevicePrefix(c, "js4"); got != "lalt+js4_button1" {
		t.Errorf("WithDevicePrefix() = %q", got)
	}
	if got := DevicePrefix("nodevice"); got != "" {
		t.Errorf("DevicePrefix(nodevice) = %q", got)
	}
	if got := Display("lalt+js2_button1"); got != "Left Alt + Joystick 2 - Button 1" {
		t.Errorf("Display() = %q", got)
	}
	if got := Display(""); got != "Unbound" {
		t.Errorf("Display(empty) = %q", got)
	}
}
