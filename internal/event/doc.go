// Package event provides the synchronous topic bus that connects input
// sources, the detection backend and the capture arbiter.
//
// Publishers never know who is listening. Keyboard and mouse front-ends
// publish on input.keyboard and input.mouse, the detection backend
// publishes input.detected and input.detection.complete, and the capture
// arbiter subscribes to all of them for the lifetime of a session and
// publishes capture.* notifications in return.
//
// # Delivery
//
// Delivery is synchronous in the publisher's goroutine and follows
// subscription priority, then subscription order. A handler may subscribe
// or cancel subscriptions (including its own) while it runs; the set of
// handlers for an event is fixed when Publish is called.
//
// Handler panics are recovered and reported through the configured panic
// handler, so one faulty subscriber cannot take down a publisher.
//
// # Usage
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe(topic.Topic("input.*"), func(ctx context.Context, ev any) error {
//		if e, ok := ev.(event.Event[key.Event]); ok {
//			// ...
//		}
//		return nil
//	})
//	defer sub.Cancel()
//
//	bus.Publish(ctx, event.NewEvent(event.TopicKeyboard, keyEvent, "terminal"))
package event
