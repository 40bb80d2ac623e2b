package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/stickbind/internal/device"
)

func newDevicesCommand(g *globalFlags) *cobra.Command {
	var (
		identify bool
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List connected controllers",
		Long: `Devices lists connected joysticks and gamepads with the slot their
inputs are routed to. --identify waits for you to press something and
reports which device and input it came from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if identify {
				fmt.Fprintf(out, "Press a controller input within %s...\n", timeout)
				in, err := a.Identify(cmd.Context(), timeout)
				if err != nil {
					return err
				}
				if in == nil {
					fmt.Fprintln(out, "Nothing pressed.")
					return nil
				}
				fmt.Fprintf(out, "%s (%s) from %s\n", in.DisplayName, in.Input, in.DeviceName)
				return nil
			}

			devices, err := a.Devices(cmd.Context())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Fprintln(out, "No controllers connected.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tTYPE\tBUTTONS\tAXES\tHATS\tROUTED TO\tAXIS PROFILE")
			for _, d := range devices {
				routed := d.Type.Prefix() + strconv.Itoa(d.ID)
				switch {
				case d.Mapped && d.Target == device.Disabled:
					routed = "disabled"
				case d.Mapped:
					routed = d.Type.Prefix() + d.Target.String() + " (mapped)"
				}
				profile := d.AxisProfile
				if profile == "" {
					profile = "-"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					d.ID, d.Name, d.Type, d.ButtonCount, d.AxisCount, d.HatCount, routed, profile)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&identify, "identify", false, "Wait for an input and report its device")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long --identify waits")
	return cmd
}

func newMapDeviceCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "map-device <physical> <slot|disabled|none>",
		Short: "Route a physical joystick to another slot",
		Long: `Map-device makes the inputs of physical joystick N arrive as if they
came from another slot (1-4), drops them entirely ("disabled"), or
removes the routing ("none").`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			physical, err := strconv.Atoi(args[0])
			if err != nil || physical < 1 {
				return fmt.Errorf("invalid joystick number %q", args[0])
			}
			a, err := g.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.MapDevice(physical, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joystick %d routed to %s.\n", physical, args[1])
			return nil
		},
	}
}
