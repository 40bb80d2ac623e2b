package event

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/stickbind/internal/event/topic"
)

// Bus is the central event bus interface.
type Bus interface {
	// Publish delivers the event to every matching subscription and
	// returns once all handlers have run.
	Publish(ctx context.Context, ev Envelope) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe cancels a subscription.
	Unsubscribe(sub Subscription) error

	// Stats returns delivery counters.
	Stats() Stats
}

// Stats contains bus delivery counters.
type Stats struct {
	EventsPublished     uint64
	EventsDelivered     uint64
	HandlerErrors       uint64
	HandlerPanics       uint64
	ActiveSubscriptions int
}

type bus struct {
	mu   sync.RWMutex
	subs []*subscription
	seq  uint64

	config busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{config: config}
}

// Publish implements Bus.
func (b *bus) Publish(ctx context.Context, ev Envelope) error {
	if ev == nil {
		return ErrInvalidEvent
	}
	t := ev.EventTopic()
	if !t.IsValid() || t.IsWildcard() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, t)
	}
	b.eventsPublished.Add(1)

	targets := b.match(t)
	for _, s := range targets {
		if !s.accepts(ev) {
			continue
		}
		if s.config.Once {
			s.Cancel()
		}
		b.deliver(ctx, s, t, ev)
	}
	return nil
}

func (b *bus) match(t topic.Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*subscription
	for _, s := range b.subs {
		if t.Matches(s.pattern) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].config.Priority != out[j].config.Priority {
			return out[i].config.Priority < out[j].config.Priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (b *bus) deliver(ctx context.Context, s *subscription, t topic.Topic, ev any) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			switch {
			case b.config.panicHandler != nil:
				b.config.panicHandler(ev, s.id, r)
			case b.config.errorHandler != nil:
				b.config.errorHandler(&HandlerError{
					SubscriptionID: s.id,
					Topic:          t.String(),
					Err:            fmt.Errorf("%w: %v", ErrHandlerPanic, r),
				})
			}
		}
	}()

	b.eventsDelivered.Add(1)
	if err := s.handler(ctx, ev); err != nil {
		b.handlerErrors.Add(1)
		if b.config.errorHandler != nil {
			b.config.errorHandler(&HandlerError{SubscriptionID: s.id, Topic: t.String(), Err: err})
		}
	}
}

// Subscribe implements Bus.
func (b *bus) Subscribe(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}

	config := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&config)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	s := &subscription{
		id:       uuid.NewString(),
		pattern:  pattern,
		handler:  fn,
		config:   config,
		seq:      b.seq,
		onCancel: b.remove,
	}
	b.subs = append(b.subs, s)
	return s, nil
}

// Unsubscribe implements Bus.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	b.mu.RLock()
	found := false
	for _, s := range b.subs {
		if s.id == sub.ID() {
			found = true
			break
		}
	}
	b.mu.RUnlock()

	if !found {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	return nil
}

func (b *bus) remove(target *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == target {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Stats implements Bus.
func (b *bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:     b.eventsPublished.Load(),
		EventsDelivered:     b.eventsDelivered.Load(),
		HandlerErrors:       b.handlerErrors.Load(),
		HandlerPanics:       b.handlerPanics.Load(),
		ActiveSubscriptions: active,
	}
}
