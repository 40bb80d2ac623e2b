package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op       Operation
		expected string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.expected {
			t.Errorf("Operation(%d).String() = %q, want %q", tt.op, got, tt.expected)
		}
	}
}

func TestWatcher_DeliversDebouncedChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{"n":1}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(other, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		want, _ := filepath.Abs(path)
		if ev.Path != want {
			t.Errorf("Path = %q, want %q", ev.Path, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected extra event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_Unwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.json")

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch: %v", err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected event %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x")); err != ErrClosed {
		t.Errorf("Watch after Close = %v, want ErrClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}
