// Package binding defines the merged binding tree (action maps, actions,
// bindings) and the string-level helpers every other package uses to
// take an input token apart: modifier prefixes, device classification,
// the cleared sentinel and human-readable display names.
//
// Input tokens look like:
//
//	kb1_a                 keyboard key
//	lalt+js1_button3      joystick button with a held modifier
//	js2_hat1_up           hat switch direction
//	mouse1_mouse2         right mouse button
//	js1_                  cleared (explicitly unbound) joystick slot
package binding
