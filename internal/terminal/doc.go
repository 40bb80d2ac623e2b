// Package terminal is the tcell front-end.
//
// Terminal wraps a tcell.Screen. Key and mouse events read from it are
// converted to key.Event and mouse.Event values and published on the
// keyboard and mouse topics of the event bus, where a capture session
// picks them up.
//
// A terminal reports no key releases and no modifier-only presses, and
// it cannot tell left from right modifiers: Alt, Ctrl and Shift map to
// their left-hand keys.
package terminal
