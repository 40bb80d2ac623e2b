package capture

import (
	"time"

	"github.com/dshills/stickbind/internal/event"
	"github.com/dshills/stickbind/internal/ident"
	"github.com/dshills/stickbind/internal/input/key"
)

// session is one capture attempt. It is only touched with the
// Arbiter's mutex held.
type session struct {
	id     string
	target Target
	state  State
	err    error

	candidates []Candidate
	seen       map[ident.Canonical]bool

	// held holds modifier keys pressed alone; they annotate the next
	// non-modifier input.
	held key.Modifier

	remaining  int
	collecting bool

	countdown Timer
	grace     Timer
	subs      []event.Subscription

	// committing is set while the mutator applies the chosen input.
	committing bool
	changed    time.Time

	live bool
}

func newSession(id string, target Target, remaining int) *session {
	return &session{
		id:         id,
		target:     target,
		state:      Idle,
		seen:       make(map[ident.Canonical]bool),
		remaining:  remaining,
		collecting: true,
		live:       true,
	}
}

// add appends a candidate. It reports false for a duplicate.
func (s *session) add(c Candidate) bool {
	if s.seen[c.Input] {
		return false
	}
	s.seen[c.Input] = true
	s.candidates = append(s.candidates, c)
	return true
}

func (s *session) find(in ident.Canonical) (Candidate, bool) {
	for _, c := range s.candidates {
		if c.Input == in {
			return c, true
		}
	}
	return Candidate{}, false
}

func (s *session) stopTimers() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.grace != nil {
		s.grace.Stop()
		s.grace = nil
	}
}

// end invalidates the session token and releases its timers and
// channel subscriptions. It is safe to call more than once.
func (s *session) end() {
	s.live = false
	s.stopTimers()
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
}

func (s *session) snapshot() StateChanged {
	return StateChanged{
		SessionID:  s.id,
		Target:     s.target,
		State:      s.state,
		Candidates: append([]Candidate(nil), s.candidates...),
		Remaining:  s.remaining,
		Err:        s.err,
		At:         s.changed,
	}
}
