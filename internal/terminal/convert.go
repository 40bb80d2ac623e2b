package terminal

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stickbind/internal/input/key"
	"github.com/dshills/stickbind/internal/input/mouse"
)

var specialKeys = map[tcell.Key]key.Code{
	tcell.KeyEnter:      "Enter",
	tcell.KeyEscape:     "Escape",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyInsert:     "Insert",
	tcell.KeyDelete:     "Delete",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
	tcell.KeyPrint:      "PrintScreen",
	tcell.KeyPause:      "Pause",
}

var runeKeys = map[rune]key.Code{
	' ':  "Space",
	'-':  "Minus",
	'=':  "Equal",
	'[':  "BracketLeft",
	']':  "BracketRight",
	'\\': "Backslash",
	';':  "Semicolon",
	'\'': "Quote",
	',':  "Comma",
	'.':  "Period",
	'/':  "Slash",
	'`':  "Backquote",
}

// shiftedRunes maps characters typed with Shift on a US layout to
// their unshifted key.
var shiftedRunes = map[rune]rune{
	'_': '-', '+': '=', '{': '[', '}': ']', '|': '\\', ':': ';',
	'"': '\'', '<': ',', '>': '.', '?': '/', '~': '`',
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
}

func modifiers(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mods = mods.With(key.ModLAlt)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModLCtrl)
	}
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModLShift)
	}
	return mods
}

// KeyEvent converts a tcell key event. Keys with no binding token
// report false.
func KeyEvent(ev *tcell.EventKey) (key.Event, bool) {
	mods := modifiers(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		code, shifted, ok := runeCode(ev.Rune())
		if !ok {
			return key.Event{}, false
		}
		if shifted {
			mods = mods.With(key.ModLShift)
		}
		return key.Event{Code: code, Modifiers: mods, Timestamp: ev.When()}, true
	}

	if code, ok := specialKeys[k]; ok {
		return key.Event{Code: code, Modifiers: mods, Timestamp: ev.When()}, true
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF24 {
		code := key.Code("F" + strconv.Itoa(int(k-tcell.KeyF1)+1))
		return key.Event{Code: code, Modifiers: mods, Timestamp: ev.When()}, true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		code := key.Code("Key" + string(rune('A'+int(k-tcell.KeyCtrlA))))
		return key.Event{Code: code, Modifiers: mods.With(key.ModLCtrl), Timestamp: ev.When()}, true
	}
	return key.Event{}, false
}

func runeCode(r rune) (code key.Code, shifted bool, ok bool) {
	if base, ok := shiftedRunes[r]; ok {
		r, shifted = base, true
	}
	switch {
	case r >= 'a' && r <= 'z':
		return key.Code("Key" + string(r-'a'+'A')), shifted, true
	case r >= 'A' && r <= 'Z':
		return key.Code("Key" + string(r)), true, true
	case r >= '0' && r <= '9':
		return key.Code("Digit" + string(r)), shifted, true
	}
	code, ok = runeKeys[r]
	return code, shifted, ok
}

var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button mouse.Button
}{
	{tcell.Button1, mouse.ButtonLeft},
	{tcell.Button2, mouse.ButtonRight},
	{tcell.Button3, mouse.ButtonMiddle},
	{tcell.Button4, mouse.ButtonBack},
	{tcell.Button5, mouse.ButtonForward},
	{tcell.WheelUp, mouse.ButtonScrollUp},
	{tcell.WheelDown, mouse.ButtonScrollDown},
}

const heldButtons = tcell.Button1 | tcell.Button2 | tcell.Button3 | tcell.Button4 | tcell.Button5

// mouseTracker turns tcell's button-state reports into presses.
type mouseTracker struct {
	held tcell.ButtonMask
}

// presses returns a mouse.Event for every button that went down with
// ev. Wheel notches count every time.
func (t *mouseTracker) presses(ev *tcell.EventMouse) []mouse.Event {
	btns := ev.Buttons()
	down := btns &^ t.held
	t.held = btns & heldButtons

	mods := modifiers(ev.Modifiers())
	var out []mouse.Event
	for _, mb := range mouseButtons {
		if down&mb.mask != 0 {
			out = append(out, mouse.Event{Button: mb.button, Modifiers: mods, Timestamp: ev.When()})
		}
	}
	return out
}
