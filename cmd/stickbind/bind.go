package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/stickbind/internal/app"
	"github.com/dshills/stickbind/internal/capture"
	"github.com/dshills/stickbind/internal/conflict"
	"github.com/dshills/stickbind/internal/terminal"
)

func newBindCommand(g *globalFlags) *cobra.Command {
	var (
		input  string
		force  bool
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "bind <action-map> <action>",
		Short: "Bind an input to an action",
		Long: `Bind assigns an input to an action.

Without --input a capture screen opens and listens: press the key,
mouse button or controller input to bind. Enter accepts a single
detection, 1-9 picks among several and Escape cancels.

When the input already drives other customised actions you are asked
whether to bind anyway; --force skips the question.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			target, title, err := a.Target(args[0], args[1])
			if err != nil {
				return err
			}

			if input != "" {
				if force {
					a.SetConfirmer(conflict.AlwaysProceed)
				} else {
					a.SetConfirmer(newLinePrompt(cmd.InOrStdin(), cmd.ErrOrStderr()))
				}
				if err := a.Bind(ctx, target, input); err != nil {
					return err
				}
			} else {
				state, err := captureInteractive(cmd, a, target, title, force)
				if err != nil {
					return err
				}
				if state != capture.Committed {
					fmt.Fprintf(cmd.ErrOrStderr(), "Capture %s.\n", state)
					return nil
				}
			}

			if noSave {
				return nil
			}
			if err := a.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bound %s.\n", title)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&input, "input", "i", "", "Bind this input (\"js1_button3\", \"LAlt+KeyF\") instead of listening for one")
	fl.BoolVarP(&force, "force", "f", false, "Bind without asking about conflicts")
	fl.BoolVar(&noSave, "no-save", false, "Do not write the profile")
	return cmd
}

func captureInteractive(cmd *cobra.Command, a *app.Application, target capture.Target, title string, force bool) (capture.State, error) {
	if !isTerminal(cmd.OutOrStdout()) {
		return capture.Failed, fmt.Errorf("%w: use --input", app.ErrNotInteractive)
	}

	term, err := terminal.New()
	if err != nil {
		return capture.Failed, err
	}
	if err := term.Init(); err != nil {
		return capture.Failed, err
	}
	defer term.Shutdown()

	screen := terminal.NewCaptureScreen(term, a.Bus(), a.Arbiter(), a.Logger())
	if force {
		a.SetConfirmer(conflict.AlwaysProceed)
	} else {
		a.SetConfirmer(screen)
	}

	state, err := a.Capture(cmd.Context(), target, title, screen)
	if errors.Is(err, capture.ErrSuperseded) {
		return capture.Cancelled, nil
	}
	return state, err
}

func newClearCommand(g *globalFlags) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "clear <action-map> <action> <input>",
		Short: "Unbind an input from an action",
		Long: `Clear removes an input from an action. Clearing a default binding
records it as cleared in the profile so the game does not restore it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			target, title, err := a.Target(args[0], args[1])
			if err != nil {
				return err
			}
			in, ok := a.Normalize(args[2])
			if !ok {
				return fmt.Errorf("unrecognised input %s", args[2])
			}
			if err := a.Clear(cmd.Context(), target, string(in)); err != nil {
				return err
			}
			if noSave {
				return nil
			}
			if err := a.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s from %s.\n", in, title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the profile")
	return cmd
}

func newResetCommand(g *globalFlags) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "reset <action-map> <action>",
		Short: "Restore an action's default bindings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			target, title, err := a.Target(args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.Reset(cmd.Context(), target); err != nil {
				return err
			}
			if noSave {
				return nil
			}
			if err := a.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %s.\n", title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the profile")
	return cmd
}

func newClearAllCommand(g *globalFlags) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Drop every custom binding, keeping the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ClearAll(cmd.Context()); err != nil {
				return err
			}
			if noSave {
				return nil
			}
			if err := a.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all custom bindings.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the profile")
	return cmd
}

func newConflictsCommand(g *globalFlags) *cobra.Command {
	var mapName, action string
	cmd := &cobra.Command{
		Use:   "conflicts <input>",
		Short: "List customised actions bound to an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			conflicts, err := a.Conflicts(cmd.Context(), args[0], capture.Target{ActionMap: mapName, Action: action})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(conflicts) == 0 {
				fmt.Fprintln(out, "No conflicts.")
				return nil
			}
			for _, line := range conflict.Describe(conflicts) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "", "Action map to leave out")
	cmd.Flags().StringVar(&action, "action", "", "Action to leave out")
	return cmd
}
