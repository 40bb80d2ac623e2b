// Package joystick turns raw game-controller events into binding tokens.
//
// A raw event names a device instance (1-based, as the game numbers
// them), a control kind and an index. Buttons and hat directions map
// directly:
//
//	js1_button3
//	js2_hat1_up
//
// Axes are continuous, so an EdgeDetector watches each axis and reports
// a discrete detection only when the stick is pushed past the trigger
// threshold in a direction that has not already fired. The axis must
// come back towards centre (below the reset threshold) before the same
// direction fires again.
//
//	js1_axis1_positive
//
// Whether a device reports as a joystick (js) or a gamepad (gp) is
// decided from its product name by ClassifyDevice.
package joystick
