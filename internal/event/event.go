package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/stickbind/internal/event/topic"
)

// Well-known topics.
const (
	// TopicKeyboard carries key.Event payloads from a keyboard front-end.
	TopicKeyboard topic.Topic = "input.keyboard"

	// TopicMouse carries mouse.Event payloads from a pointer front-end.
	TopicMouse topic.Topic = "input.mouse"

	// TopicDetected carries device inputs reported by the detection backend.
	TopicDetected topic.Topic = "input.detected"

	// TopicDetectionComplete is published once when a detection run ends.
	TopicDetectionComplete topic.Topic = "input.detection.complete"

	// TopicCaptureState carries capture session state changes.
	TopicCaptureState topic.Topic = "capture.state"

	// TopicCaptureCountdown carries the remaining seconds of an armed session.
	TopicCaptureCountdown topic.Topic = "capture.countdown"

	// TopicCaptureClosed is published when a capture view should close.
	TopicCaptureClosed topic.Topic = "capture.closed"

	// TopicPrefsChanged is published when the preference file changes on disk.
	TopicPrefsChanged topic.Topic = "prefs.changed"
)

// Envelope is implemented by every publishable event.
type Envelope interface {
	EventTopic() topic.Topic
}

// Event represents an event in the system.
// Events are immutable once created.
type Event[T any] struct {
	// Type is the hierarchical event type (e.g., "input.detected").
	Type topic.Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEvent creates a new event with the given type and payload.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// PayloadOf extracts a typed payload from a type-erased event.
func PayloadOf[T any](ev any) (T, bool) {
	switch e := ev.(type) {
	case Event[T]:
		return e.Payload, true
	case *Event[T]:
		if e != nil {
			return e.Payload, true
		}
	}
	var zero T
	return zero, false
}
