package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/memuc"
	"github.com/pyclashbot/memuc/internal/slogger"
)

var vmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change VM settings",
	Long: `Read and change the settings memuc stores for a VM, such as cpus,
memory or resolution_width. Run "memuc-go vm config keys" for the full list.`,
}

var vmConfigGetCmd = &cobra.Command{
	Use:     "get <key>",
	Short:   "Print a VM setting",
	Example: `  memuc-go vm config get -i 0 memory`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		warnUnknownKey(cmd, args[0])

		value, err := c.GetConfig(cmd.Context(), sel, args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var vmConfigSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Change a VM setting",
	Example: `  memuc-go vm config set -n pixel cpus 4`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		warnUnknownKey(cmd, args[0])

		return c.SetConfig(cmd.Context(), sel, args[0], args[1])
	},
}

var vmConfigKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the VM settings memuc understands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Join(memuc.ConfigKeys, "\n"))
	},
}

// warnUnknownKey lets keys outside the known table through, since newer
// memuc releases add settings.
func warnUnknownKey(cmd *cobra.Command, key string) {
	if !memuc.IsConfigKey(key) {
		slogger.L(cmd.Context()).Warn("unknown vm config key, passing it to memuc anyway", "key", key)
	}
}

func init() {
	vmCmd.AddCommand(vmConfigCmd)
	vmConfigCmd.AddCommand(vmConfigGetCmd, vmConfigSetCmd, vmConfigKeysCmd)

	addSelectorFlags(vmConfigGetCmd)
	addSelectorFlags(vmConfigSetCmd)
}
