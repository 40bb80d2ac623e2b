package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/event"
	"github.com/dshills/stickbind/internal/input/joystick"
)

// Source of events published by the backend.
const eventSource = "backend"

type detectionRun struct {
	sessionID string
	cancel    context.CancelFunc
}

// StartDetection implements Backend. A run already in progress is
// cancelled without a completion event; its late events still carry the
// old session ID.
func (l *Local) StartDetection(ctx context.Context, sessionID string, initial, collect time.Duration) error {
	if l.source == nil || l.bus == nil {
		return ErrDetectionUnavailable
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	events, stop, err := l.source.Open(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("open device source: %w", err)
	}

	run := &detectionRun{sessionID: sessionID, cancel: cancel}
	l.mu.Lock()
	prev := l.run
	l.run = run
	l.mu.Unlock()
	if prev != nil {
		prev.cancel()
	}

	l.logger.Debug("detection %s started (initial %s, collect %s)", sessionID, initial, collect)
	go l.detect(runCtx, run, events, stop, initial, collect)
	return nil
}

// StopDetection implements Backend.
func (l *Local) StopDetection(ctx context.Context, sessionID string) error {
	l.mu.Lock()
	run := l.run
	if run != nil && run.sessionID == sessionID {
		l.run = nil
	} else {
		run = nil
	}
	l.mu.Unlock()

	if run != nil {
		run.cancel()
		l.logger.Debug("detection %s stopped", sessionID)
	}
	return nil
}

func (l *Local) detect(ctx context.Context, run *detectionRun, events <-chan joystick.RawEvent, stop func(), initial, collect time.Duration) {
	defer stop()

	detector := joystick.NewEdgeDetector()
	timer := time.NewTimer(initial)
	defer timer.Stop()
	collecting := false

	for {
		select {
		case <-ctx.Done():
			return

		case <-timer.C:
			l.finish(ctx, run)
			return

		case raw, ok := <-events:
			if !ok {
				// Exhausted sources leave the timer to end the run.
				events = nil
				continue
			}
			in, ok := toDetected(run.sessionID, raw, detector)
			if !ok {
				continue
			}
			if !collecting {
				collecting = true
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(collect)
			}
			if err := l.bus.Publish(ctx, event.NewEvent(event.TopicDetected, in, eventSource)); err != nil {
				l.logger.Warn("publish detected input: %v", err)
			}
		}
	}
}

func (l *Local) finish(ctx context.Context, run *detectionRun) {
	l.mu.Lock()
	if l.run == run {
		l.run = nil
	}
	l.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	done := DetectionComplete{SessionID: run.sessionID}
	if err := l.bus.Publish(ctx, event.NewEvent(event.TopicDetectionComplete, done, eventSource)); err != nil {
		l.logger.Warn("publish detection complete: %v", err)
	}
	run.cancel()
	l.logger.Debug("detection %s complete", run.sessionID)
}

// toDetected converts a raw controller event into a detected input.
// Releases and axis noise yield nothing.
func toDetected(sessionID string, raw joystick.RawEvent, detector *joystick.EdgeDetector) (DetectedInput, bool) {
	out := DetectedInput{
		SessionID:  sessionID,
		Device:     binding.Joystick,
		DeviceName: raw.DeviceName,
	}
	if raw.DeviceType == joystick.TypeGamepad {
		out.Device = binding.Gamepad
	}

	if raw.Kind == joystick.KindAxis {
		det, ok := detector.Feed(raw)
		if !ok {
			return DetectedInput{}, false
		}
		v := det.Value
		out.Input = det.Input()
		out.DisplayName = det.DisplayName()
		out.AxisValue = &v
		return out, true
	}

	in, ok := raw.Input()
	if !ok {
		return DetectedInput{}, false
	}
	out.Input = in
	out.DisplayName = raw.DisplayName()
	return out, true
}

// DetectJoysticks implements Backend.
func (l *Local) DetectJoysticks(ctx context.Context) ([]joystick.Info, error) {
	if l.source == nil {
		return nil, ErrDetectionUnavailable
	}
	return l.source.Devices(ctx)
}

// WaitForInputBinding implements Backend.
func (l *Local) WaitForInputBinding(ctx context.Context, timeout time.Duration) (*DetectedInput, error) {
	if l.source == nil {
		return nil, ErrDetectionUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	events, stop, err := l.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open device source: %w", err)
	}
	defer stop()

	detector := joystick.NewEdgeDetector()
	for {
		select {
		case <-ctx.Done():
			return nil, timeoutErr(ctx)
		case raw, ok := <-events:
			if !ok {
				<-ctx.Done()
				return nil, timeoutErr(ctx)
			}
			if in, ok := toDetected("", raw, detector); ok {
				return &in, nil
			}
		}
	}
}

// timeoutErr maps an expired wait to no error and a cancelled one to
// the cancellation.
func timeoutErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil
	}
	return ctx.Err()
}
