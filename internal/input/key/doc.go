// Package key converts physical keyboard events into binding tokens.
//
// Keys are identified by their physical code (the DOM KeyboardEvent.code
// naming: "KeyA", "Digit1", "F1", "ShiftLeft", "NumpadEnter"), which is
// independent of keyboard layout. Each code maps to the token the game
// uses in its binding files:
//
//	KeyA        -> kb1_a
//	Digit1      -> kb1_1
//	NumpadEnter -> kb1_np_enter
//
// Modifier keys are tracked separately as a left/right-aware Modifier
// set and only ever prefix another key; on their own they never form a
// binding.
//
// # Key Specifications
//
// Parse accepts human-written specifications such as "LAlt+KeyF",
// "lctrl+f1" or "Shift+a" and produces an Event.
package key
