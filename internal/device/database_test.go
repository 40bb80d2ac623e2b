package device

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/stickbind/internal/ident"
	"github.com/dshills/stickbind/internal/input/joystick"
)

const testDatabase = `
devices:
  - vendor_id: "0x231d"
    product_id: "0x0200"
    name: VKB Gladiator NXT
    type: joystick
    axis_profile: vkb gladiator
axis_profiles:
  default:
    "1": x
    "2": y
    "3": z
  vkb gladiator:
    "1": x
    "2": y
    "3": ""
    "6": rotz
  t16000m:
    "3": rotz
`

func loadTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := LoadDatabase(strings.NewReader(testDatabase))
	if err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	return db
}

func TestDatabase_Lookup(t *testing.T) {
	db := loadTestDatabase(t)

	e, ok := db.Lookup(0x231d, 0x0200)
	if !ok {
		t.Fatal("device not found")
	}
	if e.Name != "VKB Gladiator NXT" || e.AxisProfile != "vkb gladiator" {
		t.Errorf("entry = %+v", e)
	}
	if _, ok := db.Lookup(1, 2); ok {
		t.Error("unexpected match")
	}
}

func TestDatabase_ProfileFor(t *testing.T) {
	db := loadTestDatabase(t)

	tests := []struct {
		device string
		want   string
	}{
		{"VKB Gladiator", "vkb gladiator"},
		{"VKB-Gladiator NXT EVO Right", "default"},
		{"Thrustmaster T.16000M", "t16000m"},
		{"Unknown Stick", "default"},
	}
	for _, tt := range tests {
		name, _, err := db.ProfileFor(tt.device)
		if err != nil {
			t.Errorf("ProfileFor(%q): %v", tt.device, err)
			continue
		}
		if name != tt.want {
			t.Errorf("ProfileFor(%q) = %q, want %q", tt.device, name, tt.want)
		}
	}

	p, _ := db.Profile("vkb gladiator")
	if _, ok := p[3]; ok {
		t.Error("empty axis name should be unmapped")
	}
}

func TestDatabase_NoDefault(t *testing.T) {
	db, err := LoadDatabase(strings.NewReader("axis_profiles:\n  x52:\n    \"1\": x\n"))
	if err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	if _, _, err := db.ProfileFor("something"); !errors.Is(err, ErrNoDefaultProfile) {
		t.Errorf("err = %v, want ErrNoDefaultProfile", err)
	}
}

func TestLoadDatabase_BadIDs(t *testing.T) {
	docs := []string{
		"devices:\n  - vendor_id: zz\n    product_id: \"0x1\"\n",
		"axis_profiles:\n  default:\n    one: x\n",
	}
	for _, doc := range docs {
		if _, err := LoadDatabase(strings.NewReader(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestProfileConverter_Normalize(t *testing.T) {
	conv := NewProfileConverter(loadTestDatabase(t), []joystick.Info{
		{ID: 1, Name: "VKB Gladiator", Type: joystick.TypeJoystick},
		{ID: 2, Name: "Mystery Pedals", Type: joystick.TypeJoystick},
	})
	ctx := ident.Context{Converter: conv}

	tests := []struct {
		raw  string
		want ident.Canonical
	}{
		{"js1_axis6_negative", "js1_rotz"},
		{"js1_axis3", "js1_axis3"},
		{"js2_axis3_positive", "js2_z"},
		{"js9_axis1", "js9_x"},
	}
	for _, tt := range tests {
		got, ok := ident.Normalize(tt.raw, ctx)
		if !ok || got != tt.want {
			t.Errorf("Normalize(%q) = (%q, %v), want %q", tt.raw, got, ok, tt.want)
		}
	}
}
