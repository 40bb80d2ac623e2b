package terminal

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/stickbind/internal/event"
)

const eventSource = "terminal"

// Terminal wraps a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mouse  mouseTracker
	mu     sync.Mutex
}

// New creates a terminal on the controlling tty.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewWithScreen wraps an existing screen, such as a simulation screen.
func NewWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initialises the screen and enables mouse reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Clear blanks the screen.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Show flushes drawing to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// Sync redraws the whole screen, used after a resize.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// DrawText writes s at (x, y), clipped to the screen width.
func (t *Terminal) DrawText(x, y int, style tcell.Style, s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return
	}
	for _, r := range s {
		if x >= width {
			return
		}
		if x >= 0 {
			t.screen.SetContent(x, y, r, nil, style)
		}
		x += max(uniseg.StringWidth(string(r)), 1)
	}
}

// Events streams screen events until quit is closed.
func (t *Terminal) Events(quit <-chan struct{}) <-chan tcell.Event {
	ch := make(chan tcell.Event, 16)
	go t.screen.ChannelEvents(ch, quit)
	return ch
}

// Publish converts a key or mouse event and publishes it on bus. It
// reports whether anything was published.
func (t *Terminal) Publish(ctx context.Context, bus event.Bus, ev tcell.Event) (bool, error) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		ke, ok := KeyEvent(e)
		if !ok {
			return false, nil
		}
		return true, bus.Publish(ctx, event.NewEvent(event.TopicKeyboard, ke, eventSource))

	case *tcell.EventMouse:
		t.mu.Lock()
		presses := t.mouse.presses(e)
		t.mu.Unlock()
		for _, me := range presses {
			if err := bus.Publish(ctx, event.NewEvent(event.TopicMouse, me, eventSource)); err != nil {
				return true, err
			}
		}
		return len(presses) > 0, nil
	}
	return false, nil
}
