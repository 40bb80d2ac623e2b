package capture

import (
	"errors"
	"time"

	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/ident"
)

// State is the state of a capture session.
type State int

const (
	// Idle means no session has run yet.
	Idle State = iota
	// Armed means the session waits for the first input.
	Armed
	// SingleCandidate means one input arrived and the grace window is
	// open for a second.
	SingleCandidate
	// MultiCandidate means several distinct inputs arrived and the user
	// must pick one.
	MultiCandidate
	// Resolving means a candidate was chosen and is being checked for
	// conflicts and applied.
	Resolving
	// Committed means the binding was applied.
	Committed
	// TimedOut means no input arrived in time.
	TimedOut
	// Cancelled means the session was cancelled, superseded, rejected
	// at the conflict prompt, or failed to apply.
	Cancelled
	// Failed means the session could not start.
	Failed
)

var stateNames = [...]string{
	Idle:            "idle",
	Armed:           "armed",
	SingleCandidate: "single-candidate",
	MultiCandidate:  "multi-candidate",
	Resolving:       "resolving",
	Committed:       "committed",
	TimedOut:        "timed-out",
	Cancelled:       "cancelled",
	Failed:          "failed",
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsTerminal reports whether the session has ended.
func (s State) IsTerminal() bool {
	return s >= Committed
}

// accepting reports whether inputs are still collected.
func (s State) accepting() bool {
	return s == Armed || s == SingleCandidate || s == MultiCandidate
}

// Target is the action a session binds.
type Target struct {
	ActionMap string
	Action    string
}

// Candidate is an input collected by a session.
type Candidate struct {
	Input       ident.Canonical
	DisplayName string
	Device      binding.InputType
	Modifiers   []string
	AxisValue   *float64
}

// StateChanged is published on every state transition.
type StateChanged struct {
	SessionID  string
	Target     Target
	State      State
	Candidates []Candidate
	Remaining  int
	Err        error
	// At is the time of the change.
	At         time.Time
}

// Countdown is published once a second while a session is armed.
type Countdown struct {
	SessionID string
	Remaining int
}

// Closed is published when the capture view for a session should go
// away: at once for most endings, after a short delay for a timeout.
type Closed struct {
	SessionID string
	State     State
}

// Errors returned by the Arbiter.
var (
	// ErrNoSession is returned when no session is live.
	ErrNoSession = errors.New("no capture session")

	// ErrInvalidState is returned when an operation does not apply in
	// the session's current state.
	ErrInvalidState = errors.New("operation not valid in this capture state")

	// ErrUnknownCandidate is returned by Select for an input that was
	// not collected.
	ErrUnknownCandidate = errors.New("input is not a candidate")

	// ErrInvalidTarget is returned by Start for an empty target.
	ErrInvalidTarget = errors.New("capture target needs an action map and action")

	// ErrSuperseded is reported for a session ended by a newer one or
	// cancelled while it was being resolved.
	ErrSuperseded = errors.New("capture session superseded")
)
