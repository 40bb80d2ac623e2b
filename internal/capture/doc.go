// Package capture runs input-capture sessions: the user is asked to
// press the input they want bound to an action, and the Arbiter
// collects what arrives from the keyboard, mouse and controller
// channels until the user confirms one candidate or the session times
// out.
//
// # Lifecycle
//
//	Idle -> Armed -> SingleCandidate -> Resolving -> Committed
//	               \                 \-> MultiCandidate -> Resolving
//	                \-> TimedOut
//
// Any live state may move to Cancelled. A session whose channels or
// detection run cannot be started ends Failed.
//
// Only one session is live at a time. Starting a session ends the
// previous one, and every channel listener carries its session's token
// so that events still in flight for an old session are dropped.
//
// All callbacks (bus handlers, timers, API calls) are serialised by the
// Arbiter's mutex, which is released around backend round trips and
// the conflict prompt. Notifications are published after the mutex is
// released, so subscribers may call back into the Arbiter.
package capture
