package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/memuc"
)

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Send keys, text and sensor data to a VM",
	Long: `Send keys, text and sensor data to a VM.

Negative coordinates must follow "--" so they are not read as flags:

  memuc-go input gps -i 0 -- -33.8688 151.2093`,
}

var inputKeyCmd = &cobra.Command{
	Use:       "key <key>",
	Short:     "Press an Android key",
	ValidArgs: keyNames(),
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := memuc.ParseKey(args[0])
		if err != nil {
			return err
		}
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.SendKey(cmd.Context(), sel, key)
	},
}

var inputShakeCmd = &cobra.Command{
	Use:   "shake",
	Short: "Shake the VM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.Shake(cmd.Context(), sel)
	},
}

var inputTextCmd = &cobra.Command{
	Use:   "text <text>",
	Short: "Type text into the focused field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.InputText(cmd.Context(), sel, args[0])
	},
}

var inputRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.Rotate(cmd.Context(), sel)
	},
}

var inputZoomInCmd = &cobra.Command{
	Use:   "zoom-in",
	Short: "Zoom in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.ZoomIn(cmd.Context(), sel)
	},
}

var inputZoomOutCmd = &cobra.Command{
	Use:   "zoom-out",
	Short: "Zoom out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.ZoomOut(cmd.Context(), sel)
	},
}

var inputGPSCmd = &cobra.Command{
	Use:   "gps <latitude> <longitude>",
	Short: "Set the GPS position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseFloats(args)
		if err != nil {
			return err
		}
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.SetGPS(cmd.Context(), sel, coords[0], coords[1])
	},
}

var inputAccelCmd = &cobra.Command{
	Use:   "accel <x> <y> <z>",
	Short: "Set the accelerometer reading",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseFloats(args)
		if err != nil {
			return err
		}
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.SetAccelerometer(cmd.Context(), sel, v[0], v[1], v[2])
	},
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", memuc.ErrInvalidArgument, arg)
		}
		out[i] = f
	}
	return out, nil
}

func keyNames() []string {
	names := make([]string, len(memuc.Keys))
	for i, k := range memuc.Keys {
		names[i] = string(k)
	}
	return names
}

func init() {
	rootCmd.AddCommand(inputCmd)
	inputCmd.AddCommand(inputKeyCmd, inputShakeCmd, inputTextCmd, inputRotateCmd,
		inputZoomInCmd, inputZoomOutCmd, inputGPSCmd, inputAccelCmd)

	for _, c := range inputCmd.Commands() {
		addSelectorFlags(c)
	}
}
