package backend

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/input/joystick"
)

// Backend is the persistence and detection collaborator.
type Backend interface {
	// GetMergedBindings returns defaults overlaid with the user's profile.
	GetMergedBindings(ctx context.Context) (binding.Profile, error)

	// LoadKeybindings replaces the user's profile with the file at path.
	LoadKeybindings(ctx context.Context, path string) error

	// ExportKeybindings writes the user's profile to path.
	ExportKeybindings(ctx context.Context, path string) error

	// UpdateBinding binds input to an action, replacing any rebind from
	// the same device instance. An empty input drops the action's
	// overrides.
	UpdateBinding(ctx context.Context, mapName, action, input string) error

	// ClearSpecificBinding unbinds one input from an action.
	ClearSpecificBinding(ctx context.Context, mapName, action, input string) error

	// ResetBinding drops the user's overrides for an action.
	ResetBinding(ctx context.Context, mapName, action string) error

	// ClearCustomBindings drops every override in the user's profile.
	ClearCustomBindings(ctx context.Context) error

	// FindConflictingBindings lists other actions bound to input.
	FindConflictingBindings(ctx context.Context, input, excludeMap, excludeAction string) ([]Conflict, error)

	// StartDetection begins a detection run tagged with sessionID. The
	// run ends after initial without input, or collect after the first
	// input, and publishes one detection-complete event.
	StartDetection(ctx context.Context, sessionID string, initial, collect time.Duration) error

	// StopDetection ends the run tagged with sessionID, if it is current.
	StopDetection(ctx context.Context, sessionID string) error

	// DetectJoysticks lists connected controllers.
	DetectJoysticks(ctx context.Context) ([]joystick.Info, error)

	// WaitForInputBinding returns the first controller input within
	// timeout, or nil when none arrives.
	WaitForInputBinding(ctx context.Context, timeout time.Duration) (*DetectedInput, error)
}

// Conflict is another action already bound to an input.
type Conflict struct {
	MapName     string
	MapLabel    string
	ActionName  string
	ActionLabel string
}

// DetectedInput is one input reported by a detection run.
type DetectedInput struct {
	SessionID   string
	Input       string
	DisplayName string
	Device      binding.InputType
	DeviceName  string
	Modifiers   []string
	AxisValue   *float64
	IsModifier  bool
}

// DetectionComplete is published once when a detection run ends.
type DetectionComplete struct {
	SessionID string
}

// Sentinel errors.
var (
	// ErrNotFound is returned when the target of a command does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoProfile is returned by commands that need a loaded profile.
	ErrNoProfile = errors.New("no bindings loaded")

	// ErrUnknownInputType is returned when an input's device class cannot
	// be determined.
	ErrUnknownInputType = errors.New("unknown input type")

	// ErrDetectionUnavailable is returned when no device source is configured.
	ErrDetectionUnavailable = errors.New("input detection unavailable")
)

// IsNotFound reports whether err means the command's target is missing,
// either because it does not exist or because nothing is loaded.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoProfile)
}
