package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/stickbind/internal/binding/match"
)

func newSearchCommand(g *globalFlags) *cobra.Command {
	var (
		hideDefaults bool
		modifier     string
		category     string
		button       int
		device       string
		saveFilters  bool
		jsonOutput   bool
	)
	cmd := &cobra.Command{
		Use:   "search [input]",
		Short: "Show the actions an input drives",
		Long: `Search lists every action bound to an input, custom bindings first.

The input may be written the way the game stores it ("lalt+kb1_f"),
as a key spec ("f", "LAlt+KeyF"), or as a joystick token
("js1_button3"). Use --device and --button to ask about a numbered
stick button instead.

Filters not given on the command line come from the saved preferences;
--save-filters stores the ones given as the new defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			var q match.Query
			switch {
			case len(args) == 1:
				in, ok := a.Normalize(args[0])
				if !ok {
					return errors.New("unrecognised input " + args[0])
				}
				q.Input = string(in)
			case button > 0 && device != "":
				q.Button, q.Prefix = button, device
			default:
				return errors.New("give an input or both --device and --button")
			}

			f := a.Filters()
			flags := cmd.Flags()
			if flags.Changed("hide-defaults") {
				f.HideDefaults = hideDefaults
			}
			if flags.Changed("modifier") {
				f.Modifier = modifier
			}
			if flags.Changed("category") {
				f.Category = category
			}
			if saveFilters {
				if err := a.SaveFilters(f); err != nil {
					return err
				}
			}

			results := a.Search(q, f)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), matchesJSON(results))
			}
			return writeMatches(cmd.OutOrStdout(), results)
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&hideDefaults, "hide-defaults", false, "Show only customised bindings")
	fl.StringVar(&modifier, "modifier", "", "Only bindings held with this modifier (lalt, rctrl, ...)")
	fl.StringVar(&category, "category", "", "Only action maps of this category")
	fl.IntVar(&button, "button", 0, "Button number for a numeric query")
	fl.StringVar(&device, "device", "", "Device prefix for a numeric query (js1, gp1)")
	fl.BoolVar(&saveFilters, "save-filters", false, "Store the filters as defaults")
	fl.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}
