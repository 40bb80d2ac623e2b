// Package mouse converts mouse button and wheel events into binding
// tokens. Buttons are numbered the way the game numbers them: left is
// mouse1, right mouse2, middle mouse3, back and forward mouse4 and
// mouse5. Wheel notches become mwheel_up and mwheel_down.
package mouse
