package app

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotInteractive is returned when live capture is asked for
	// without a terminal to draw on.
	ErrNotInteractive = errors.New("live capture needs an interactive terminal")

	// ErrNoProfilePath is returned by Save when neither the
	// configuration nor an earlier load or export names a profile file.
	ErrNoProfilePath = errors.New("no profile path configured")

	// ErrNotUnbindProfile is returned when asked to remove a profile
	// file that is not a generated unbind profile.
	ErrNotUnbindProfile = errors.New("not an unbind profile")
)

// OperationError ties a failure to the command and binding or file it
// concerned, e.g. "bind spaceship_weapons/v_attack1: binding rejected".
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError wraps err for op on target.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Target != "" {
		b.WriteString(" ")
		b.WriteString(e.Target)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ErrorList collects the failures of a multi-step operation such as
// Close. It is not safe for concurrent use.
type ErrorList struct {
	errs []error
}

// Add records err. Nil is ignored.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Len returns the number of recorded errors.
func (l *ErrorList) Len() int {
	return len(l.errs)
}

func (l *ErrorList) Error() string {
	msgs := make([]string, len(l.errs))
	for i, err := range l.errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the recorded errors to errors.Is and errors.As.
func (l *ErrorList) Unwrap() []error {
	return l.errs
}

// AsError returns nil when nothing was recorded.
func (l *ErrorList) AsError() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}
