package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/stickbind/internal/event/topic"
)

type ping struct{ N int }

func TestBus_PublishDeliversToMatchingSubscribers(t *testing.T) {
	b := NewBus()
	ctx := context.Background()

	var exact, wildcard, other int
	if _, err := b.Subscribe("input.keyboard", func(ctx context.Context, ev any) error {
		exact++
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := b.Subscribe("input.*", func(ctx context.Context, ev any) error {
		wildcard++
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := b.Subscribe("capture.**", func(ctx context.Context, ev any) error {
		other++
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := b.Publish(ctx, NewEvent(TopicKeyboard, ping{1}, "test")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := b.Publish(ctx, NewEvent(TopicMouse, ping{2}, "test")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if exact != 1 {
		t.Errorf("exact = %d, want 1", exact)
	}
	if wildcard != 2 {
		t.Errorf("wildcard = %d, want 2", wildcard)
	}
	if other != 0 {
		t.Errorf("other = %d, want 0", other)
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	b := NewBus()
	var order []string

	record := func(name string) HandlerFunc {
		return func(ctx context.Context, ev any) error {
			order = append(order, name)
			return nil
		}
	}
	b.Subscribe("input.keyboard", record("low"), WithPriority(PriorityLow))
	b.Subscribe("input.keyboard", record("normal-1"))
	b.Subscribe("input.keyboard", record("high"), WithPriority(PriorityHigh))
	b.Subscribe("input.keyboard", record("normal-2"))

	b.Publish(context.Background(), NewEvent(TopicKeyboard, ping{}, "test"))

	want := []string{"high", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	b := NewBus()
	count := 0
	sub, _ := b.Subscribe("input.detected", func(ctx context.Context, ev any) error {
		count++
		return nil
	})

	b.Publish(context.Background(), NewEvent(TopicDetected, ping{}, "test"))
	sub.Cancel()
	sub.Cancel()
	b.Publish(context.Background(), NewEvent(TopicDetected, ping{}, "test"))

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if sub.IsActive() {
		t.Error("subscription should be inactive after Cancel")
	}
	if got := b.Stats().ActiveSubscriptions; got != 0 {
		t.Errorf("ActiveSubscriptions = %d, want 0", got)
	}
	if err := b.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("Unsubscribe after cancel = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestBus_CancelFromInsideHandler(t *testing.T) {
	b := NewBus()
	var first, second int
	var subs []Subscription

	s1, _ := b.Subscribe("input.keyboard", func(ctx context.Context, ev any) error {
		first++
		for _, s := range subs {
			s.Cancel()
		}
		return nil
	})
	s2, _ := b.Subscribe("input.keyboard", func(ctx context.Context, ev any) error {
		second++
		return nil
	})
	subs = []Subscription{s1, s2}

	b.Publish(context.Background(), NewEvent(TopicKeyboard, ping{}, "test"))
	b.Publish(context.Background(), NewEvent(TopicKeyboard, ping{}, "test"))

	if first != 1 {
		t.Errorf("first = %d, want 1", first)
	}
	// Cancelled mid-dispatch, so never delivered.
	if second != 0 {
		t.Errorf("second = %d, want 0", second)
	}
}

func TestBus_Once(t *testing.T) {
	b := NewBus()
	count := 0
	b.Subscribe("input.detection.complete", func(ctx context.Context, ev any) error {
		count++
		return nil
	}, Once())

	for i := 0; i < 3; i++ {
		b.Publish(context.Background(), NewEvent(TopicDetectionComplete, ping{}, "test"))
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBus_Filter(t *testing.T) {
	b := NewBus()
	var got []int
	b.Subscribe("input.detected", func(ctx context.Context, ev any) error {
		p, _ := PayloadOf[ping](ev)
		got = append(got, p.N)
		return nil
	}, WithFilter(func(ev any) bool {
		p, ok := PayloadOf[ping](ev)
		return ok && p.N%2 == 0
	}))

	for i := 1; i <= 4; i++ {
		b.Publish(context.Background(), NewEvent(TopicDetected, ping{i}, "test"))
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("got = %v, want [2 4]", got)
	}
}

func TestBus_PanicRecovered(t *testing.T) {
	var recovered any
	b := NewBus(WithPanicHandler(func(ev any, id string, r any) {
		recovered = r
	}))
	after := 0
	b.Subscribe("input.mouse", func(ctx context.Context, ev any) error {
		panic("boom")
	})
	b.Subscribe("input.mouse", func(ctx context.Context, ev any) error {
		after++
		return nil
	})

	if err := b.Publish(context.Background(), NewEvent(TopicMouse, ping{}, "test")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if recovered != "boom" {
		t.Errorf("recovered = %v, want boom", recovered)
	}
	if after != 1 {
		t.Errorf("handler after panic ran %d times, want 1", after)
	}
	if b.Stats().HandlerPanics != 1 {
		t.Errorf("HandlerPanics = %d, want 1", b.Stats().HandlerPanics)
	}
}

func TestBus_PanicReportedAsError(t *testing.T) {
	var got *HandlerError
	b := NewBus(WithErrorHandler(func(err *HandlerError) { got = err }))
	b.Subscribe("input.mouse", func(ctx context.Context, ev any) error {
		panic("boom")
	})

	b.Publish(context.Background(), NewEvent(TopicMouse, ping{}, "test"))
	if got == nil || !errors.Is(got, ErrHandlerPanic) {
		t.Fatalf("error handler got %v, want ErrHandlerPanic", got)
	}
}

func TestBus_HandlerError(t *testing.T) {
	sentinel := errors.New("nope")
	var got *HandlerError
	b := NewBus(WithErrorHandler(func(err *HandlerError) { got = err }))
	b.Subscribe("capture.state", func(ctx context.Context, ev any) error {
		return sentinel
	})

	b.Publish(context.Background(), NewEvent(TopicCaptureState, ping{}, "test"))
	if got == nil || !errors.Is(got, sentinel) {
		t.Fatalf("error handler got %v, want wrapped sentinel", got)
	}
	if got.Topic != "capture.state" {
		t.Errorf("Topic = %q", got.Topic)
	}
}

func TestBus_InvalidInput(t *testing.T) {
	b := NewBus()
	if _, err := b.Subscribe("input.keyboard", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: %v", err)
	}
	if _, err := b.Subscribe("", func(context.Context, any) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty pattern: %v", err)
	}
	if err := b.Publish(context.Background(), nil); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("nil event: %v", err)
	}
	if err := b.Publish(context.Background(), NewEvent(topic.Topic("input.*"), ping{}, "test")); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("wildcard publish: %v", err)
	}
}

func TestPayloadOf(t *testing.T) {
	ev := NewEvent(TopicKeyboard, ping{N: 7}, "test")
	if p, ok := PayloadOf[ping](ev); !ok || p.N != 7 {
		t.Errorf("PayloadOf value = %v, %v", p, ok)
	}
	if p, ok := PayloadOf[ping](&ev); !ok || p.N != 7 {
		t.Errorf("PayloadOf pointer = %v, %v", p, ok)
	}
	if _, ok := PayloadOf[string](ev); ok {
		t.Error("PayloadOf with wrong type should fail")
	}
	if ev.Metadata.ID == "" || ev.Metadata.Source != "test" {
		t.Errorf("metadata not populated: %+v", ev.Metadata)
	}
}
