package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/stickbind/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	config   string
	defaults string
	profile  string
	replay   string
	logLevel string
}

func (g *globalFlags) open() (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath:   g.config,
		DefaultsPath: g.defaults,
		ProfilePath:  g.profile,
		ReplayPath:   g.replay,
		LogLevel:     g.logLevel,
	})
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "stickbind",
		Short: "Search and rebind flight-sim controls",
		Long: `stickbind edits the control bindings of a flight simulator profile.

It merges the game's default bindings with your customisations, finds
what a key, mouse button or joystick input drives, and binds new inputs
by listening for them live.

Examples:
  stickbind search kb1_f                      # What does F do?
  stickbind search --device js1 --button 3    # What does stick button 3 do?
  stickbind bind spaceship_weapons v_attack1  # Press an input to bind it
  stickbind bind spaceship_weapons v_attack1 --input js2_button4
  stickbind map-device 2 1                    # Treat physical stick 2 as js1`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch g.logLevel {
			case "", "debug", "info", "warn", "error":
				return nil
			default:
				return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", g.logLevel)
			}
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("stickbind %s\nCommit: %s\nBuilt: %s\n", version, commit, date))

	pf := root.PersistentFlags()
	pf.StringVarP(&g.config, "config", "c", "", "Path to configuration file")
	pf.StringVar(&g.defaults, "defaults", "", "Path to the default bindings XML")
	pf.StringVarP(&g.profile, "profile", "p", "", "Path to the custom profile XML")
	pf.StringVar(&g.replay, "replay", "", "Read controller events from a YAML replay script")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newSearchCommand(g),
		newBindCommand(g),
		newClearCommand(g),
		newResetCommand(g),
		newClearAllCommand(g),
		newConflictsCommand(g),
		newDevicesCommand(g),
		newMapDeviceCommand(g),
		newExportCommand(g),
		newImportCommand(g),
		newOverlayCommand(g),
		newUnbindProfileCommand(g),
		newPrefsCommand(g),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stickbind %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
