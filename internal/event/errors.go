package event

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent is returned by Publish for a nil event or one
	// without a concrete topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned by Subscribe for an empty or malformed
	// pattern.
	ErrInvalidTopic = errors.New("invalid topic")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrHandlerPanic         = errors.New("handler panicked")
	ErrNilHandler           = errors.New("nil handler")
)

// HandlerError reports a handler that returned an error or panicked
// while an event was delivered.
type HandlerError struct {
	SubscriptionID string
	Topic          string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("event %s: subscription %s: %v", e.Topic, e.SubscriptionID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
