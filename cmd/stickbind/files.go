package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newExportCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the custom profile to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Export(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s.\n", args[0])
			return nil
		},
	}
}

func newImportCommand(g *globalFlags) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the custom profile with a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Import(cmd.Context(), args[0]); err != nil {
				return err
			}
			if !noSave {
				if err := a.Save(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s.\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the profile")
	return cmd
}

func newOverlayCommand(g *globalFlags) *cobra.Command {
	var hideDefaults bool
	cmd := &cobra.Command{
		Use:   "overlay <template.json>",
		Short: "Show what each button of a stick template drives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			f := a.Filters()
			if cmd.Flags().Changed("hide-defaults") {
				f.HideDefaults = hideDefaults
			}
			overlays, err := a.Overlay(args[0], f)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SIDE\tBUTTON\tACTIONS")
			for _, o := range overlays {
				label := o.Button.Label
				if label == "" {
					label = o.Button.ID
				}
				if len(o.Matches) == 0 {
					fmt.Fprintf(tw, "%s\t%s\t-\n", o.Side, label)
					continue
				}
				for i, m := range o.Matches {
					if i > 0 {
						label = ""
					}
					fmt.Fprintf(tw, "%s\t%s\t%s (%s)\n", o.Side, label, m.ActionLabel, m.MapLabel)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&hideDefaults, "hide-defaults", false, "Show only customised bindings")
	return cmd
}

func newUnbindProfileCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unbind-profile",
		Short: "Write or remove a profile that clears whole devices",
		Long: `An unbind profile binds nothing on the chosen devices, so loading it
in game wipes their bindings before a custom profile is applied. The
pause and back menu actions stay on Escape.`,
	}

	var devices []string
	write := &cobra.Command{
		Use:   "write <path>",
		Short: "Write an unbind profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.WriteUnbindProfile(cmd.Context(), args[0], devices); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote unbind profile to %s.\n", args[0])
			return nil
		},
	}
	write.Flags().StringSliceVarP(&devices, "device", "d", nil,
		"Device instances to clear (kb1, mouse1, gp1, js1, js2); all of them when omitted")

	remove := &cobra.Command{
		Use:   "remove <path>",
		Short: "Delete an unbind profile written earlier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.RemoveUnbindProfile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(write, remove)
	return cmd
}

func newPrefsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "prefs",
		Short: "Print the saved preferences as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()
			return writeRawJSON(cmd.OutOrStdout(), a.PrefsJSON())
		},
	}
}
