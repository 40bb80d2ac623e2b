// Package conflict decides whether a pending binding may be applied
// when other actions already use the same input.
package conflict

import (
	"context"
	"fmt"

	"github.com/dshills/stickbind/internal/backend"
	"github.com/dshills/stickbind/internal/logging"
)

// Decision is the outcome of a conflict check.
type Decision int

const (
	// Proceed means the binding may be applied.
	Proceed Decision = iota
	// Discard means the user rejected the binding.
	Discard
)

// String returns the decision name.
func (d Decision) String() string {
	if d == Discard {
		return "discard"
	}
	return "proceed"
}

// Pending is a binding about to be applied.
type Pending struct {
	ActionMap string
	Action    string
	Input     string
}

// Finder looks up actions already bound to an input.
type Finder interface {
	FindConflictingBindings(ctx context.Context, input, excludeMap, excludeAction string) ([]backend.Conflict, error)
}

// Confirmer asks the user whether to bind despite conflicts.
type Confirmer interface {
	ConfirmConflicts(ctx context.Context, p Pending, conflicts []backend.Conflict) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Pending, conflicts []backend.Conflict) (bool, error)

// ConfirmConflicts implements Confirmer.
func (f ConfirmFunc) ConfirmConflicts(ctx context.Context, p Pending, conflicts []backend.Conflict) (bool, error) {
	return f(ctx, p, conflicts)
}

// AlwaysProceed accepts every conflict.
var AlwaysProceed = ConfirmFunc(func(context.Context, Pending, []backend.Conflict) (bool, error) {
	return true, nil
})

// Resolver runs the conflict check.
type Resolver struct {
	finder    Finder
	confirmer Confirmer
	logger    *logging.Logger
}

// NewResolver creates a resolver. A nil confirmer proceeds on conflict.
func NewResolver(finder Finder, confirmer Confirmer, logger *logging.Logger) *Resolver {
	if confirmer == nil {
		confirmer = AlwaysProceed
	}
	return &Resolver{
		finder:    finder,
		confirmer: confirmer,
		logger:    logging.OrNull(logger).WithComponent("conflict"),
	}
}

// Check looks for conflicts with p and, when there are any, asks the
// confirmer. The conflicts found are returned with the decision.
func (r *Resolver) Check(ctx context.Context, p Pending) (Decision, []backend.Conflict, error) {
	conflicts, err := r.finder.FindConflictingBindings(ctx, p.Input, p.ActionMap, p.Action)
	if err != nil {
		return Discard, nil, fmt.Errorf("find conflicts for %s: %w", p.Input, err)
	}
	if len(conflicts) == 0 {
		return Proceed, nil, nil
	}

	r.logger.Debug("%s is bound to %d other action(s)", p.Input, len(conflicts))
	ok, err := r.confirmer.ConfirmConflicts(ctx, p, conflicts)
	if err != nil {
		return Discard, conflicts, fmt.Errorf("confirm conflicts: %w", err)
	}
	if !ok {
		return Discard, conflicts, nil
	}
	return Proceed, conflicts, nil
}

// Describe renders conflicts for a prompt, one per line.
func Describe(conflicts []backend.Conflict) []string {
	out := make([]string, len(conflicts))
	for i, c := range conflicts {
		out[i] = fmt.Sprintf("%s > %s", c.MapLabel, c.ActionLabel)
	}
	return out
}
