package cmd

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var netCmd = &cobra.Command{
	Use:   "net",
	Short: "Control a VM's network",
}

var netConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a VM to the internet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.ConnectInternet(cmd.Context(), sel)
	},
}

var netDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect a VM from the internet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.DisconnectInternet(cmd.Context(), sel)
	},
}

var netPublicIPCmd = &cobra.Command{
	Use:   "public-ip",
	Short: "Print the public address a VM reaches the internet from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		addr, err := c.PublicIP(cmd.Context(), sel)
		if err != nil {
			return err
		}
		fmt.Println(addr)
		return nil
	},
}

var netADBConnCmd = &cobra.Command{
	Use:   "adb-conn",
	Short: "Print the host:port adb uses to reach a VM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		timeout, err := timeoutFrom(cmd)
		if err != nil {
			return err
		}
		host, port, err := c.ADBConnection(cmd.Context(), sel, timeout)
		if err != nil {
			return err
		}
		fmt.Println(net.JoinHostPort(host, strconv.Itoa(port)))
		return nil
	},
}

var adbCmd = &cobra.Command{
	Use:   "adb <args>...",
	Short: "Run adb against a VM",
	Long: `Run adb against a VM and print its output.

A single argument is split by shell rules, so both forms below work.
memuc's exit status for adb carries no meaning; only a timeout fails.`,
	Example: `  memuc-go adb -i 0 -- shell getprop ro.build.version.release
  memuc-go adb -i 0 "shell input tap 100 200"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		timeout, err := timeoutFrom(cmd)
		if err != nil {
			return err
		}

		var out string
		if len(args) == 1 {
			out, err = c.SendADBString(cmd.Context(), sel, args[0], timeout)
		} else {
			out, err = c.SendADB(cmd.Context(), sel, args, timeout)
		}
		if err != nil {
			return err
		}
		fmt.Print(withNewline(out))
		return nil
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <command>...",
	Short: "Run a shell command inside a VM",
	Long:  `Run a shell command inside a VM. Multiple arguments are joined with spaces.`,
	Example: `  memuc-go exec -i 0 -- ls /sdcard
  memuc-go exec -n pixel "getprop ro.product.model"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		out, err := c.ExecCommand(cmd.Context(), sel, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Print(withNewline(out))
		return nil
	},
}

var sortwinCmd = &cobra.Command{
	Use:   "sortwin",
	Short: "Tile the windows of all running VMs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient(cmd)
		if err != nil {
			return err
		}
		return c.SortWindows(cmd.Context())
	},
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func init() {
	rootCmd.AddCommand(netCmd, adbCmd, execCmd, sortwinCmd)
	netCmd.AddCommand(netConnectCmd, netDisconnectCmd, netPublicIPCmd, netADBConnCmd)

	for _, c := range []*cobra.Command{
		netConnectCmd, netDisconnectCmd, netPublicIPCmd, netADBConnCmd, adbCmd, execCmd,
	} {
		addSelectorFlags(c)
	}
	addTimeoutFlag(netADBConnCmd)
	addTimeoutFlag(adbCmd)
}
