// Package topic provides hierarchical topic names and wildcard matching
// for the event bus.
//
// Topics use dot notation:
//
//	input.keyboard
//	input.detected
//	capture.state
//
// Two wildcards are supported in subscription patterns:
//
//   - "*" matches exactly one segment
//   - "**" as the last segment matches whatever remains
//
// Examples:
//
//	input.*       matches input.keyboard, input.mouse (not input.detection.complete)
//	input.**      matches input.keyboard, input.detection.complete
//	**            matches everything
package topic
