// Package gateway is the single path through which bindings are
// changed. Every mutation marks the preferences as having unsaved
// changes and refreshes the snapshot searches read from.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/stickbind/internal/backend"
	"github.com/dshills/stickbind/internal/binding"
	"github.com/dshills/stickbind/internal/binding/match"
	"github.com/dshills/stickbind/internal/logging"
	"github.com/dshills/stickbind/internal/prefs"
)

// Gateway wraps a backend with snapshot and preference bookkeeping.
type Gateway struct {
	backend backend.Backend
	prefs   prefs.Store
	logger  *logging.Logger

	mu       sync.RWMutex
	snapshot binding.Profile
}

var _ match.Source = (*Gateway)(nil)

// New creates a gateway. The snapshot is empty until Refresh.
func New(b backend.Backend, store prefs.Store, logger *logging.Logger) *Gateway {
	if store == nil {
		store = prefs.NewMemory()
	}
	return &Gateway{
		backend: b,
		prefs:   store,
		logger:  logging.OrNull(logger).WithComponent("gateway"),
	}
}

// Profile returns the latest merged bindings.
func (g *Gateway) Profile() binding.Profile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

// Refresh re-fetches the merged bindings.
func (g *Gateway) Refresh(ctx context.Context) error {
	p, err := g.backend.GetMergedBindings(ctx)
	if err != nil {
		return fmt.Errorf("refresh bindings: %w", err)
	}
	g.mu.Lock()
	g.snapshot = p
	g.mu.Unlock()
	return nil
}

// Update binds input to an action.
func (g *Gateway) Update(ctx context.Context, mapName, action, input string) error {
	if err := g.backend.UpdateBinding(ctx, mapName, action, input); err != nil {
		g.logger.Error("update %s/%s to %q: %v", mapName, action, input, err)
		return err
	}
	g.logger.Info("bound %s/%s to %q", mapName, action, input)
	return g.mutated(ctx)
}

// Clear unbinds one input from an action.
func (g *Gateway) Clear(ctx context.Context, mapName, action, input string) error {
	if err := g.backend.ClearSpecificBinding(ctx, mapName, action, input); err != nil {
		g.logger.Error("clear %q from %s/%s: %v", input, mapName, action, err)
		return err
	}
	g.logger.Info("cleared %q from %s/%s", input, mapName, action)
	return g.mutated(ctx)
}

// Reset restores an action's defaults. A backend that cannot find
// anything to reset is answered by dropping the action's overrides
// through Update instead.
func (g *Gateway) Reset(ctx context.Context, mapName, action string) error {
	err := g.backend.ResetBinding(ctx, mapName, action)
	if backend.IsNotFound(err) {
		g.logger.Debug("reset %s/%s: %v, falling back to update", mapName, action, err)
		return g.Update(ctx, mapName, action, "")
	}
	if err != nil {
		g.logger.Error("reset %s/%s: %v", mapName, action, err)
		return err
	}
	g.logger.Info("reset %s/%s", mapName, action)
	return g.mutated(ctx)
}

// ClearAll drops every custom binding, leaving the defaults, and
// forgets the last profile file since it no longer matches.
func (g *Gateway) ClearAll(ctx context.Context) error {
	err := g.backend.ClearCustomBindings(ctx)
	switch {
	case errors.Is(err, backend.ErrNoProfile):
		g.logger.Debug("clear all: no custom bindings loaded")
	case err != nil:
		g.logger.Error("clear all: %v", err)
		return err
	default:
		g.logger.Info("cleared all custom bindings")
	}
	if err := g.prefs.Delete(prefs.KeyLastFilePath); err != nil {
		g.logger.Warn("forget last file: %v", err)
	}
	return g.mutated(ctx)
}

// FindConflictingBindings passes through to the backend.
func (g *Gateway) FindConflictingBindings(ctx context.Context, input, excludeMap, excludeAction string) ([]backend.Conflict, error) {
	return g.backend.FindConflictingBindings(ctx, input, excludeMap, excludeAction)
}

// Load replaces the user's profile with the file at path.
func (g *Gateway) Load(ctx context.Context, path string) error {
	if err := g.backend.LoadKeybindings(ctx, path); err != nil {
		return err
	}
	if err := g.prefs.Set(prefs.KeyLastFilePath, path); err != nil {
		g.logger.Warn("record last file: %v", err)
	}
	if err := g.prefs.Set(prefs.KeyUnsavedChanges, false); err != nil {
		g.logger.Warn("clear unsaved flag: %v", err)
	}
	return g.Refresh(ctx)
}

// Export writes the user's profile to path and clears the unsaved flag.
func (g *Gateway) Export(ctx context.Context, path string) error {
	if err := g.backend.ExportKeybindings(ctx, path); err != nil {
		return err
	}
	if err := g.prefs.Set(prefs.KeyLastFilePath, path); err != nil {
		g.logger.Warn("record last file: %v", err)
	}
	if err := g.prefs.Set(prefs.KeyUnsavedChanges, false); err != nil {
		g.logger.Warn("clear unsaved flag: %v", err)
	}
	return nil
}

// Unsaved reports whether bindings changed since the last load or export.
func (g *Gateway) Unsaved() bool {
	return g.prefs.Bool(prefs.KeyUnsavedChanges)
}

// LastFilePath returns the last loaded or exported profile path.
func (g *Gateway) LastFilePath() string {
	return g.prefs.String(prefs.KeyLastFilePath)
}

func (g *Gateway) mutated(ctx context.Context) error {
	if err := g.prefs.Set(prefs.KeyUnsavedChanges, true); err != nil {
		g.logger.Warn("mark unsaved: %v", err)
	}
	return g.Refresh(ctx)
}
