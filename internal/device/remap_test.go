package device

import (
	"errors"
	"testing"

	"github.com/dshills/stickbind/internal/ident"
	"github.com/dshills/stickbind/internal/prefs"
)

func TestTable_Remap(t *testing.T) {
	table := Table{1: 2, 2: Disabled, 3: 1}

	tests := []struct {
		in     ident.Canonical
		want   ident.Canonical
		wantOK bool
	}{
		{"js1_button3", "js2_button3", true},
		{"lalt+js1_button3", "lalt+js2_button3", true},
		{"js2_button1", "", false},
		{"js3_hat1_up", "js1_hat1_up", true},
		{"gp1_button1", "gp2_button1", true},
		{"js4_button1", "js4_button1", true},
		{"kb1_a", "kb1_a", true},
		{"mouse1_mouse1", "mouse1_mouse1", true},
	}
	for _, tt := range tests {
		got, ok := table.Remap(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Remap(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable(map[string]string{"1": "2", "2": "disabled", "x": "1", "3": "9"})
	if err == nil {
		t.Error("expected error for malformed entries")
	}
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
	if table[1] != 2 || table[2] != Disabled {
		t.Errorf("valid entries lost: %v", table)
	}
	if _, ok := table[3]; ok {
		t.Error("out of range target should be dropped")
	}

	enc := table.Encode()
	if enc["1"] != "2" || enc["2"] != "disabled" {
		t.Errorf("Encode() = %v", enc)
	}
}

func TestRemapper_PersistsThroughPrefs(t *testing.T) {
	store := prefs.NewMemory()
	r := NewRemapper(store, nil)

	if err := r.Set(2, Disabled); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := r.Set(1, 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := r.Set(1, 7); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Set(1, 7) err = %v, want ErrInvalidTarget", err)
	}

	m := store.StringMap(prefs.KeyJoystickMapping)
	if m["1"] != "2" || m["2"] != "disabled" {
		t.Errorf("stored mapping = %v", m)
	}

	if _, ok := r.Remap("js2_button1"); ok {
		t.Error("disabled device should be discarded")
	}

	// An external edit is picked up by Load.
	_ = store.Set(prefs.KeyJoystickMapping, map[string]string{"2": "1"})
	if err := r.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := r.Remap("js2_button1")
	if !ok || got != "js1_button1" {
		t.Errorf("Remap after reload = (%q, %v)", got, ok)
	}

	if err := r.Unset(2); err != nil {
		t.Fatalf("Unset: %v", err)
	}
	if len(r.Table()) != 0 {
		t.Errorf("Table() = %v, want empty", r.Table())
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{"1", 1, false},
		{"4", 4, false},
		{"Disabled", Disabled, false},
		{"0", 0, true},
		{"5", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTarget(%q) = (%v, %v)", tt.in, got, err)
		}
	}
}
