package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/stickbind/internal/backend"
	"github.com/dshills/stickbind/internal/conflict"
)

// linePrompt asks about conflicts on a line-oriented terminal.
type linePrompt struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompt(in io.Reader, out io.Writer) *linePrompt {
	return &linePrompt{in: bufio.NewReader(in), out: out}
}

// ConfirmConflicts implements conflict.Confirmer. End of input declines.
func (p *linePrompt) ConfirmConflicts(ctx context.Context, pending conflict.Pending, conflicts []backend.Conflict) (bool, error) {
	fmt.Fprintf(p.out, "%s is already used by:\n", pending.Input)
	for _, line := range conflict.Describe(conflicts) {
		fmt.Fprintf(p.out, "  %s\n", line)
	}
	fmt.Fprint(p.out, "Bind anyway? [y/N] ")

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.err != io.EOF {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}
