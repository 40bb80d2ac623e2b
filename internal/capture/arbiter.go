package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/stickbind/internal/backend"
	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/conflict"
	"github.com/dshills/stickbind/internal/event"
	"github.com/dshills/stickbind/internal/event/topic"
	"github.com/dshills/stickbind/internal/ident"
	"github.com/dshills/stickbind/internal/input/key"
	"github.com/dshills/stickbind/internal/input/mouse"
	"github.com/dshills/stickbind/internal/logging"
)

const eventSource = "capture"

// Detector starts and stops controller detection runs.
type Detector interface {
	StartDetection(ctx context.Context, sessionID string, initial, collect time.Duration) error
	StopDetection(ctx context.Context, sessionID string) error
}

// Mutator applies a chosen binding.
type Mutator interface {
	Update(ctx context.Context, mapName, action, input string) error
}

// ConflictChecker vets a chosen binding before it is applied.
type ConflictChecker interface {
	Check(ctx context.Context, p conflict.Pending) (conflict.Decision, []backend.Conflict, error)
}

// Remapper rewrites or drops controller inputs by physical device.
type Remapper interface {
	Remap(c ident.Canonical) (ident.Canonical, bool)
}

// Config holds session timings.
type Config struct {
	// InitialTimeout is how long an armed session waits for input.
	InitialTimeout time.Duration

	// CollectDuration is passed to the detector as the collection
	// window after the first controller input.
	CollectDuration time.Duration

	// GraceWindow is how long a second distinct input may follow the
	// first.
	GraceWindow time.Duration

	// TimeoutDisplayDelay is how long after a timeout the capture view
	// is closed.
	TimeoutDisplayDelay time.Duration

	// Converter names numeric axes during normalisation. Nil keeps them.
	Converter ident.AxisConverter
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		InitialTimeout:      10 * time.Second,
		CollectDuration:     2 * time.Second,
		GraceWindow:         time.Second,
		TimeoutDisplayDelay: 1500 * time.Millisecond,
	}
}

// Option configures an Arbiter.
type Option func(*Arbiter)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(a *Arbiter) { a.clock = c }
}

// WithConfig sets the session timings.
func WithConfig(cfg Config) Option {
	return func(a *Arbiter) { a.cfg = cfg }
}

// WithDetector sets the controller detector.
func WithDetector(d Detector) Option {
	return func(a *Arbiter) { a.detector = d }
}

// WithRemapper sets the physical device remapper.
func WithRemapper(r Remapper) Option {
	return func(a *Arbiter) { a.remapper = r }
}

// WithConflictChecker sets the conflict check run before applying.
func WithConflictChecker(c ConflictChecker) Option {
	return func(a *Arbiter) { a.resolver = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Arbiter) { a.logger = l }
}

// Arbiter owns the single live capture session.
type Arbiter struct {
	bus      event.Bus
	mutator  Mutator
	detector Detector
	remapper Remapper
	resolver ConflictChecker
	clock    Clock
	cfg      Config
	logger   *logging.Logger

	mu         sync.Mutex
	sess       *session
	closeTimer Timer
	pending    []func()
}

// New creates an Arbiter that listens on bus and applies bindings
// through mutator.
func New(bus event.Bus, mutator Mutator, opts ...Option) *Arbiter {
	a := &Arbiter{
		bus:     bus,
		mutator: mutator,
		clock:   RealClock,
		cfg:     DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNull(a.logger).WithComponent("capture")
	return a
}

// unlock releases the mutex and then runs the work queued with later,
// in order.
func (a *Arbiter) unlock() {
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (a *Arbiter) later(fn func()) {
	a.pending = append(a.pending, fn)
}

func (a *Arbiter) publish(ev event.Envelope) {
	if err := a.bus.Publish(context.Background(), ev); err != nil {
		a.logger.Warn("publish %s: %v", ev.EventTopic(), err)
	}
}

// Start begins a session for target, ending any live one, and returns
// the new session's token. It fails with ErrInvalidState while the live
// session's binding is being applied.
func (a *Arbiter) Start(ctx context.Context, target Target) (string, error) {
	if target.ActionMap == "" || target.Action == "" {
		return "", ErrInvalidTarget
	}

	a.mu.Lock()
	if prev := a.sess; prev != nil && prev.committing {
		a.unlock()
		return "", fmt.Errorf("start while committing %s: %w", prev.id, ErrInvalidState)
	}
	if prev := a.sess; prev != nil && prev.live {
		a.logger.Debug("session %s superseded", prev.id)
		a.finishLocked(prev, Cancelled, ErrSuperseded)
	}
	if a.closeTimer != nil {
		a.closeTimer.Stop()
		a.closeTimer = nil
	}

	s := newSession(uuid.NewString(), target, seconds(a.cfg.InitialTimeout))
	a.sess = s
	if err := a.subscribeLocked(s); err != nil {
		a.finishLocked(s, Failed, err)
		a.unlock()
		return "", fmt.Errorf("subscribe capture channels: %w", err)
	}
	s.state = Armed
	a.emitStateLocked(s)
	a.scheduleTickLocked(s)
	a.unlock()

	if a.detector != nil {
		err := a.detector.StartDetection(ctx, s.id, a.cfg.InitialTimeout, a.cfg.CollectDuration)
		switch {
		case errors.Is(err, backend.ErrDetectionUnavailable):
			a.logger.Warn("controller detection unavailable, capturing keyboard and mouse only")
		case err != nil:
			a.mu.Lock()
			if a.sess == s && s.live {
				a.finishLocked(s, Failed, err)
			}
			a.unlock()
			return "", fmt.Errorf("start detection: %w", err)
		}
	}

	a.logger.Info("capture %s armed for %s/%s", s.id, target.ActionMap, target.Action)
	return s.id, nil
}

func (a *Arbiter) subscribeLocked(s *session) error {
	channels := []struct {
		topic topic.Topic
		fn    event.HandlerFunc
	}{
		{event.TopicKeyboard, a.onKeyboard(s)},
		{event.TopicMouse, a.onMouse(s)},
		{event.TopicDetected, a.onDetected(s)},
		{event.TopicDetectionComplete, a.onDetectionComplete(s)},
	}
	for _, ch := range channels {
		sub, err := a.bus.Subscribe(ch.topic, ch.fn, event.WithPriority(event.PriorityHigh))
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// acceptingLocked reports whether s is the live session and still
// collecting input.
func (a *Arbiter) acceptingLocked(s *session) bool {
	return a.sess == s && s.live && s.state.accepting()
}

func (a *Arbiter) onKeyboard(s *session) event.HandlerFunc {
	return func(ctx context.Context, ev any) error {
		ke, ok := event.PayloadOf[key.Event](ev)
		if !ok {
			return nil
		}

		a.mu.Lock()
		defer a.unlock()
		if !a.acceptingLocked(s) {
			return nil
		}

		if mod, isMod := key.ModifierOf(ke.Code); isMod {
			if ke.Released {
				s.held = s.held.Without(mod)
			} else {
				s.held = s.held.With(mod)
			}
			return nil
		}
		if ke.Released {
			return nil
		}

		ke.Modifiers = ke.Modifiers.With(s.held)
		raw, ok := ke.Input()
		if !ok {
			a.logger.Debug("ignoring unmapped key %s", ke.Code)
			return nil
		}
		s.held = key.ModNone
		a.offerLocked(s, raw, "", binding.Keyboard, nil)
		return nil
	}
}

func (a *Arbiter) onMouse(s *session) event.HandlerFunc {
	return func(ctx context.Context, ev any) error {
		me, ok := event.PayloadOf[mouse.Event](ev)
		if !ok {
			return nil
		}

		a.mu.Lock()
		defer a.unlock()
		if !a.acceptingLocked(s) {
			return nil
		}

		me.Modifiers = me.Modifiers.With(s.held)
		raw, ok := me.Input()
		if !ok {
			return nil
		}
		s.held = key.ModNone
		a.offerLocked(s, raw, "", binding.Mouse, nil)
		return nil
	}
}

func (a *Arbiter) onDetected(s *session) event.HandlerFunc {
	return func(ctx context.Context, ev any) error {
		in, ok := event.PayloadOf[backend.DetectedInput](ev)
		if !ok {
			return nil
		}
		if in.SessionID != s.id {
			a.logger.Debug("dropping %s from stale session %s", in.Input, in.SessionID)
			return nil
		}

		a.mu.Lock()
		defer a.unlock()
		if !a.acceptingLocked(s) || in.IsModifier {
			return nil
		}

		raw := strings.ToLower(strings.TrimSpace(in.Input))
		if raw == "" {
			return nil
		}
		var prefix strings.Builder
		prefix.WriteString(s.held.Prefix())
		for _, m := range in.Modifiers {
			prefix.WriteString(strings.ToLower(m))
			prefix.WriteByte('+')
		}
		display := in.DisplayName
		if prefix.Len() > 0 {
			display = ""
		}
		s.held = key.ModNone
		a.offerLocked(s, prefix.String()+raw, display, in.Device, in.AxisValue)
		return nil
	}
}

func (a *Arbiter) onDetectionComplete(s *session) event.HandlerFunc {
	return func(ctx context.Context, ev any) error {
		done, ok := event.PayloadOf[backend.DetectionComplete](ev)
		if ok && done.SessionID == s.id {
			a.logger.Debug("detection run for %s complete", s.id)
		}
		return nil
	}
}

// offerLocked runs an input through remap, normalisation and dedup and
// advances the session.
func (a *Arbiter) offerLocked(s *session, raw, display string, device binding.InputType, axis *float64) {
	c := ident.Canonical(raw)
	if a.remapper != nil && (device == binding.Joystick || device == binding.Gamepad) {
		var ok bool
		if c, ok = a.remapper.Remap(c); !ok {
			a.logger.Debug("dropping %s from disabled device", raw)
			return
		}
	}

	norm, ok := ident.Normalize(string(c), ident.Context{Converter: a.cfg.Converter})
	if !ok {
		return
	}
	if display == "" || string(norm) != raw {
		display = ident.Display(norm)
	}
	mods, _ := binding.SplitModifiers(string(norm))
	cand := Candidate{
		Input:       norm,
		DisplayName: display,
		Device:      device,
		Modifiers:   mods,
		AxisValue:   axis,
	}

	switch s.state {
	case Armed:
		s.add(cand)
		s.state = SingleCandidate
		if s.countdown != nil {
			s.countdown.Stop()
			s.countdown = nil
		}
		s.grace = a.clock.AfterFunc(a.cfg.GraceWindow, func() { a.graceElapsed(s) })
		a.emitStateLocked(s)

	case SingleCandidate:
		if !s.collecting {
			a.logger.Debug("ignoring %s after grace window", norm)
			return
		}
		if !s.add(cand) {
			return
		}
		s.state = MultiCandidate
		if s.grace != nil {
			s.grace.Stop()
			s.grace = nil
		}
		a.emitStateLocked(s)

	case MultiCandidate:
		if s.add(cand) {
			a.emitStateLocked(s)
		}
	}
}

func (a *Arbiter) graceElapsed(s *session) {
	a.mu.Lock()
	defer a.unlock()
	if a.sess != s || !s.live {
		return
	}
	s.grace = nil
	if s.state == SingleCandidate {
		s.collecting = false
	}
}

func (a *Arbiter) scheduleTickLocked(s *session) {
	s.countdown = a.clock.AfterFunc(time.Second, func() { a.tick(s) })
}

func (a *Arbiter) tick(s *session) {
	a.mu.Lock()
	defer a.unlock()
	if a.sess != s || !s.live || s.state != Armed {
		return
	}

	s.remaining--
	cd := Countdown{SessionID: s.id, Remaining: s.remaining}
	a.later(func() { a.publish(event.NewEvent(event.TopicCaptureCountdown, cd, eventSource)) })

	if s.remaining <= 0 {
		a.logger.Info("capture %s timed out", s.id)
		a.finishLocked(s, TimedOut, nil)
		return
	}
	a.scheduleTickLocked(s)
}

// Confirm applies the single collected candidate. It returns the
// session's final state.
func (a *Arbiter) Confirm(ctx context.Context) (State, error) {
	a.mu.Lock()
	s := a.sess
	if s == nil || !s.live {
		a.unlock()
		return Idle, ErrNoSession
	}
	if s.state != SingleCandidate {
		st := s.state
		a.unlock()
		return st, fmt.Errorf("confirm while %s: %w", st, ErrInvalidState)
	}
	return a.resolve(ctx, s, s.candidates[0])
}

// Select applies one of several collected candidates.
func (a *Arbiter) Select(ctx context.Context, input string) (State, error) {
	want, ok := ident.Normalize(input, ident.Context{Converter: a.cfg.Converter})

	a.mu.Lock()
	s := a.sess
	if s == nil || !s.live {
		a.unlock()
		return Idle, ErrNoSession
	}
	if s.state != SingleCandidate && s.state != MultiCandidate {
		st := s.state
		a.unlock()
		return st, fmt.Errorf("select while %s: %w", st, ErrInvalidState)
	}
	c, found := s.find(want)
	if !ok || !found {
		st := s.state
		a.unlock()
		return st, fmt.Errorf("%q: %w", input, ErrUnknownCandidate)
	}
	return a.resolve(ctx, s, c)
}

// resolve is entered with the mutex held and returns with it released.
func (a *Arbiter) resolve(ctx context.Context, s *session, c Candidate) (State, error) {
	s.state = Resolving
	s.stopTimers()
	a.emitStateLocked(s)
	a.stopDetectionLater(s.id)
	a.unlock()

	p := conflict.Pending{ActionMap: s.target.ActionMap, Action: s.target.Action, Input: string(c.Input)}
	if a.resolver != nil {
		decision, conflicts, err := a.resolver.Check(ctx, p)
		if err != nil {
			return a.conclude(s, Cancelled, err)
		}
		if decision == conflict.Discard {
			a.logger.Info("binding %s to %s/%s rejected (%d conflicts)", p.Input, p.ActionMap, p.Action, len(conflicts))
			return a.conclude(s, Cancelled, nil)
		}
	}

	a.mu.Lock()
	if a.sess != s || !s.live {
		st := s.state
		a.unlock()
		return st, ErrSuperseded
	}
	s.committing = true
	a.unlock()

	if err := a.mutator.Update(ctx, p.ActionMap, p.Action, p.Input); err != nil {
		a.logger.Error("apply %s to %s/%s: %v", p.Input, p.ActionMap, p.Action, err)
		return a.conclude(s, Cancelled, err)
	}
	return a.conclude(s, Committed, nil)
}

func (a *Arbiter) conclude(s *session, state State, err error) (State, error) {
	a.mu.Lock()
	defer a.unlock()
	s.committing = false
	if !s.live {
		// Ended while the conflict check was pending.
		if err != nil {
			return s.state, err
		}
		return s.state, ErrSuperseded
	}
	a.finishLocked(s, state, err)
	return state, err
}

// Cancel ends the live session. Once the binding is being applied the
// session can no longer be cancelled and ErrInvalidState is returned.
func (a *Arbiter) Cancel() error {
	a.mu.Lock()
	defer a.unlock()
	s := a.sess
	if s == nil || !s.live {
		return ErrNoSession
	}
	if s.committing {
		return fmt.Errorf("cancel while committing: %w", ErrInvalidState)
	}
	a.logger.Info("capture %s cancelled", s.id)
	a.finishLocked(s, Cancelled, nil)
	return nil
}

// Active reports whether a session is live.
func (a *Arbiter) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sess != nil && a.sess.live
}

// Snapshot returns the state of the latest session.
func (a *Arbiter) Snapshot() StateChanged {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess == nil {
		return StateChanged{State: Idle}
	}
	return a.sess.snapshot()
}

// finishLocked moves s to a terminal state and releases everything it
// holds.
func (a *Arbiter) finishLocked(s *session, state State, err error) {
	s.state = state
	s.err = err
	s.end()
	a.emitStateLocked(s)

	closed := event.NewEvent(event.TopicCaptureClosed, Closed{SessionID: s.id, State: state}, eventSource)
	if state == TimedOut {
		a.closeTimer = a.clock.AfterFunc(a.cfg.TimeoutDisplayDelay, func() { a.publish(closed) })
	} else {
		a.later(func() { a.publish(closed) })
	}
	a.stopDetectionLater(s.id)
}

func (a *Arbiter) stopDetectionLater(id string) {
	if a.detector == nil {
		return
	}
	a.later(func() {
		if err := a.detector.StopDetection(context.Background(), id); err != nil {
			a.logger.Warn("stop detection %s: %v", id, err)
		}
	})
}

func (a *Arbiter) emitStateLocked(s *session) {
	s.changed = a.clock.Now()
	snap := s.snapshot()
	a.later(func() { a.publish(event.NewEvent(event.TopicCaptureState, snap, eventSource)) })
}

// seconds rounds d up to whole seconds, at least one.
func seconds(d time.Duration) int {
	n := int((d + time.Second - 1) / time.Second)
	return max(n, 1)
}
