package event

import (
	"context"
	"sync/atomic"

	"github.com/dshills/stickbind/internal/event/topic"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityHigh is for state machines that must see an event first.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and display handlers that run last.
	PriorityLow Priority = 300
)

// HandlerFunc processes an event. The event is type-erased; handlers
// type-assert or use PayloadOf.
type HandlerFunc func(ctx context.Context, ev any) error

// FilterFunc decides whether an event should be delivered.
type FilterFunc func(ev any) bool

// Subscription represents an active event subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() topic.Topic

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Cancel permanently cancels the subscription. It is safe to call
	// more than once and from inside the subscription's own handler.
	Cancel()
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Filter is an optional predicate to filter events.
	Filter FilterFunc

	// Once indicates the subscription should auto-cancel after the first event.
	Once bool
}

type subscription struct {
	id      string
	pattern topic.Topic
	handler HandlerFunc
	config  SubscriptionConfig
	seq     uint64

	cancelled atomic.Bool
	onCancel  func(*subscription)
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }
func (s *subscription) IsActive() bool     { return !s.cancelled.Load() }

func (s *subscription) Cancel() {
	if s.cancelled.CompareAndSwap(false, true) && s.onCancel != nil {
		s.onCancel(s)
	}
}

func (s *subscription) accepts(ev any) bool {
	if s.cancelled.Load() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(ev) {
		return false
	}
	return true
}
