package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stickbind/internal/backend"
	"github.com/dshills/stickbind/internal/capture"
	"github.com/dshills/stickbind/internal/conflict"
	"github.com/dshills/stickbind/internal/event"
	"github.com/dshills/stickbind/internal/logging"
)

// Controller drives the live capture session.
type Controller interface {
	Confirm(ctx context.Context) (capture.State, error)
	Select(ctx context.Context, input string) (capture.State, error)
	Cancel() error
}

var (
	styleTitle  = tcell.StyleDefault.Bold(true)
	styleNormal = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Dim(true)
	styleAlert  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// CaptureScreen shows one capture session. Escape cancels, Enter binds
// a single detected input and 1-9 pick among several; every other key
// and mouse press goes to the session as input.
//
// CaptureScreen also implements conflict.Confirmer by prompting on the
// same screen.
type CaptureScreen struct {
	term   *Terminal
	bus    event.Bus
	ctl    Controller
	logger *logging.Logger

	mu        sync.Mutex
	sessionID string
	title     string
	state     capture.StateChanged
	remaining int
	prompt    []string

	events <-chan tcell.Event
	redraw chan struct{}
	closed chan capture.State
}

// NewCaptureScreen creates a capture screen. The controller may be set
// later with SetController when it is built after the screen.
func NewCaptureScreen(term *Terminal, bus event.Bus, ctl Controller, logger *logging.Logger) *CaptureScreen {
	return &CaptureScreen{
		term:   term,
		bus:    bus,
		ctl:    ctl,
		logger: logging.OrNull(logger).WithComponent("terminal"),
		redraw: make(chan struct{}, 1),
		closed: make(chan capture.State, 1),
	}
}

// SetController sets the session controller.
func (s *CaptureScreen) SetController(ctl Controller) {
	s.ctl = ctl
}

// Run shows session sessionID until it closes or ctx ends, and returns
// the session's final state.
func (s *CaptureScreen) Run(ctx context.Context, sessionID, title string) (capture.State, error) {
	s.mu.Lock()
	s.sessionID = sessionID
	s.title = title
	s.state = capture.StateChanged{SessionID: sessionID, State: capture.Armed}
	s.remaining = 0
	s.prompt = nil
	s.mu.Unlock()

	subs, err := s.subscribe(sessionID)
	if err != nil {
		return capture.Failed, err
	}
	defer func() {
		for _, sub := range subs {
			sub.Cancel()
		}
	}()

	quit := make(chan struct{})
	defer close(quit)
	s.events = s.term.Events(quit)

	for {
		s.draw()
		select {
		case <-ctx.Done():
			_ = s.ctl.Cancel()
			return capture.Cancelled, ctx.Err()
		case st := <-s.closed:
			return st, nil
		case <-s.redraw:
		case ev, ok := <-s.events:
			if !ok {
				return capture.Cancelled, errors.New("terminal closed")
			}
			s.handle(ctx, ev)
		}
	}
}

func (s *CaptureScreen) subscribe(id string) ([]event.Subscription, error) {
	var subs []event.Subscription
	add := func(sub event.Subscription, err error) error {
		if err != nil {
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	only := event.WithFilter(forSession(id))
	last := event.WithPriority(event.PriorityLow)
	err := errors.Join(
		add(s.bus.Subscribe(event.TopicCaptureState, func(ctx context.Context, ev any) error {
			if st, ok := event.PayloadOf[capture.StateChanged](ev); ok {
				s.mu.Lock()
				s.state = st
				s.mu.Unlock()
				s.poke()
			}
			return nil
		}, only, last)),
		add(s.bus.Subscribe(event.TopicCaptureCountdown, func(ctx context.Context, ev any) error {
			if cd, ok := event.PayloadOf[capture.Countdown](ev); ok {
				s.mu.Lock()
				s.remaining = cd.Remaining
				s.mu.Unlock()
				s.poke()
			}
			return nil
		}, only, last)),
		add(s.bus.Subscribe(event.TopicCaptureClosed, func(ctx context.Context, ev any) error {
			if c, ok := event.PayloadOf[capture.Closed](ev); ok {
				select {
				case s.closed <- c.State:
				default:
				}
			}
			return nil
		}, only, last, event.Once())),
	)
	if err != nil {
		for _, sub := range subs {
			sub.Cancel()
		}
		return nil, err
	}
	return subs, nil
}

// forSession accepts capture events that belong to session id.
func forSession(id string) event.FilterFunc {
	return func(ev any) bool {
		if st, ok := event.PayloadOf[capture.StateChanged](ev); ok {
			return st.SessionID == id
		}
		if cd, ok := event.PayloadOf[capture.Countdown](ev); ok {
			return cd.SessionID == id
		}
		if c, ok := event.PayloadOf[capture.Closed](ev); ok {
			return c.SessionID == id
		}
		return false
	}
}

func (s *CaptureScreen) poke() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}

func (s *CaptureScreen) handle(ctx context.Context, ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		s.term.Sync()
		return
	case *tcell.EventKey:
		if s.control(ctx, e) {
			return
		}
	}
	if _, err := s.term.Publish(ctx, s.bus, ev); err != nil {
		s.logger.Warn("publish input: %v", err)
	}
}

// control handles the keys the screen reserves. It reports whether e
// was consumed.
func (s *CaptureScreen) control(ctx context.Context, e *tcell.EventKey) bool {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()

	switch {
	case e.Key() == tcell.KeyEscape:
		if err := s.ctl.Cancel(); err != nil && !errors.Is(err, capture.ErrNoSession) {
			s.logger.Warn("cancel: %v", err)
		}
		return true

	case e.Key() == tcell.KeyEnter:
		if st.State == capture.SingleCandidate {
			s.report(s.ctl.Confirm(ctx))
		}
		return true

	case e.Key() == tcell.KeyRune && st.State == capture.MultiCandidate:
		r := e.Rune()
		if r < '1' || r > '9' {
			return false
		}
		n := int(r - '1')
		if n < len(st.Candidates) {
			s.report(s.ctl.Select(ctx, string(st.Candidates[n].Input)))
		}
		return true
	}
	return false
}

func (s *CaptureScreen) report(state capture.State, err error) {
	if err != nil {
		s.logger.Warn("capture ended %s: %v", state, err)
	}
}

// ConfirmConflicts implements conflict.Confirmer. It runs while Run is
// blocked in Confirm or Select and reads the same event stream.
func (s *CaptureScreen) ConfirmConflicts(ctx context.Context, p conflict.Pending, conflicts []backend.Conflict) (bool, error) {
	lines := []string{fmt.Sprintf("%s is already used by:", p.Input)}
	for _, d := range conflict.Describe(conflicts) {
		lines = append(lines, "  "+d)
	}
	lines = append(lines, "", "Bind anyway? [y/n]")

	s.mu.Lock()
	s.prompt = lines
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.prompt = nil
		s.mu.Unlock()
	}()

	for {
		s.draw()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case ev, ok := <-s.events:
			if !ok {
				return false, errors.New("terminal closed")
			}
			ke, isKey := ev.(*tcell.EventKey)
			if !isKey {
				continue
			}
			switch {
			case ke.Key() == tcell.KeyEscape:
				return false, nil
			case ke.Key() == tcell.KeyEnter:
				return true, nil
			case ke.Key() == tcell.KeyRune:
				switch ke.Rune() {
				case 'y', 'Y':
					return true, nil
				case 'n', 'N':
					return false, nil
				}
			}
		}
	}
}

func (s *CaptureScreen) draw() {
	s.mu.Lock()
	title, st, remaining := s.title, s.state, s.remaining
	prompt := append([]string(nil), s.prompt...)
	s.mu.Unlock()

	s.term.Clear()
	s.term.DrawText(1, 0, styleTitle, title)

	y := 2
	line := func(style tcell.Style, text string) {
		s.term.DrawText(1, y, style, text)
		y++
	}

	if len(prompt) > 0 {
		for i, l := range prompt {
			style := styleNormal
			if i == 0 {
				style = styleAlert
			}
			line(style, l)
		}
		s.term.Show()
		return
	}

	switch st.State {
	case capture.Armed:
		msg := "Press a key, click a mouse button, or move a joystick control"
		if remaining > 0 {
			msg += fmt.Sprintf(" (%ds)", remaining)
		}
		line(styleNormal, msg)
		y++
		line(styleDim, "[Esc] cancel")

	case capture.SingleCandidate:
		line(styleNormal, "Detected: "+st.Candidates[0].DisplayName)
		y++
		line(styleDim, "[Enter] bind  [Esc] cancel")

	case capture.MultiCandidate:
		line(styleNormal, "Several inputs detected:")
		for i, c := range st.Candidates {
			if i < 9 {
				line(styleNormal, fmt.Sprintf("  %d. %s", i+1, c.DisplayName))
			}
		}
		y++
		line(styleDim, "[1-9] choose  [Esc] cancel")

	case capture.Resolving:
		line(styleNormal, "Applying...")

	case capture.Committed:
		line(styleNormal, "Bound.")

	case capture.TimedOut:
		line(styleAlert, "No input detected.")

	case capture.Cancelled:
		line(styleDim, "Cancelled.")
		if st.Err != nil && !errors.Is(st.Err, capture.ErrSuperseded) {
			line(styleAlert, st.Err.Error())
		}

	case capture.Failed:
		line(styleAlert, "Capture failed.")
		if st.Err != nil {
			line(styleAlert, st.Err.Error())
		}
	}
	s.term.Show()
}
