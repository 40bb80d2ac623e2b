package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stickbind/internal/input/mouse"
)

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want string
		ok   bool
	}{
		{"letter", tcell.KeyRune, 'a', tcell.ModNone, "kb1_a", true},
		{"upper letter", tcell.KeyRune, 'A', tcell.ModNone, "lshift+kb1_a", true},
		{"digit", tcell.KeyRune, '7', tcell.ModNone, "kb1_7", true},
		{"shifted digit", tcell.KeyRune, '!', tcell.ModNone, "lshift+kb1_1", true},
		{"punctuation", tcell.KeyRune, '[', tcell.ModNone, "kb1_lbracket", true},
		{"space", tcell.KeyRune, ' ', tcell.ModNone, "kb1_space", true},
		{"alt letter", tcell.KeyRune, 'f', tcell.ModAlt, "lalt+kb1_f", true},
		{"function key", tcell.KeyF5, 0, tcell.ModNone, "kb1_f5", true},
		{"ctrl function key", tcell.KeyF12, 0, tcell.ModCtrl, "lctrl+kb1_f12", true},
		{"arrow", tcell.KeyUp, 0, tcell.ModNone, "kb1_up", true},
		{"page down", tcell.KeyPgDn, 0, tcell.ModNone, "kb1_pgdn", true},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone, "kb1_enter", true},
		{"ctrl letter", tcell.KeyCtrlB, 0, tcell.ModCtrl, "lctrl+kb1_b", true},
		{"non ascii", tcell.KeyRune, 'é', tcell.ModNone, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ke, ok := KeyEvent(tcell.NewEventKey(tt.key, tt.r, tt.mod))
			if ok != tt.ok {
				t.Fatalf("KeyEvent() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			got, _ := ke.Input()
			if got != tt.want {
				t.Errorf("KeyEvent() input = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMouseTracker(t *testing.T) {
	var tr mouseTracker

	got := tr.presses(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	if len(got) != 1 || got[0].Button != mouse.ButtonLeft {
		t.Fatalf("first press = %+v, want left", got)
	}

	// Still held: no new press.
	if got := tr.presses(tcell.NewEventMouse(1, 0, tcell.Button1, tcell.ModNone)); len(got) != 0 {
		t.Errorf("drag reported presses %+v", got)
	}

	got = tr.presses(tcell.NewEventMouse(1, 0, tcell.Button1|tcell.Button2, tcell.ModShift))
	if len(got) != 1 || got[0].Button != mouse.ButtonRight {
		t.Fatalf("second button = %+v, want right", got)
	}
	if in, _ := got[0].Input(); in != "lshift+mouse1_mouse2" {
		t.Errorf("input = %q, want lshift+mouse1_mouse2", in)
	}

	tr.presses(tcell.NewEventMouse(1, 0, tcell.ButtonNone, tcell.ModNone))
	if got := tr.presses(tcell.NewEventMouse(1, 0, tcell.Button1, tcell.ModNone)); len(got) != 1 {
		t.Errorf("press after release = %+v, want one", got)
	}

	for i := 0; i < 2; i++ {
		got := tr.presses(tcell.NewEventMouse(1, 0, tcell.WheelUp, tcell.ModNone))
		if len(got) != 1 || got[0].Button != mouse.ButtonScrollUp {
			t.Errorf("wheel notch %d = %+v", i, got)
		}
	}
}
