// Package template loads joystick overlay templates.
//
// A template places labelled buttons over a picture of one or two
// sticks. Two file shapes exist: the legacy single-stick shape with a
// top-level "buttons" array, and the dual-stick shape with
// "leftJoystick" and "rightJoystick" objects. Parse resolves either into
// a Template once; nothing downstream looks at the file shape again.
//
// Overlay pairs every template button with the bindings it drives by
// asking a match.Matcher, rewriting symbolic inputs onto the stick's
// device prefix first.
package template
