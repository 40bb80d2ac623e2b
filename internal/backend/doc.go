// Package backend defines the command interface the binding editor
// talks to and provides Local, an in-process implementation.
//
// Local keeps two documents: the defaults database (every action with
// its default keyboard, mouse, joystick and gamepad input) and the
// user's profile (only the actions the user rebound). GetMergedBindings
// overlays the profile on the defaults:
//
//   - user rebinds come first, in profile order
//   - a cleared rebind ("js1_ ") is flagged default and shows the
//     default it suppresses
//   - defaults are added for every device class the user did not touch
//
// Live detection reads raw controller events from a DeviceSource and
// publishes them on the event bus, tagged with the session id the
// caller passed to StartDetection.
package backend
