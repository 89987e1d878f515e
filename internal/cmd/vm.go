package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/memuc"
	"github.com/pyclashbot/memuc/internal/names"
	"github.com/pyclashbot/memuc/internal/slogger"
)

var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Create, control and inspect VMs",
}

var vmCreateCmd = &cobra.Command{
	Use:   "create [android-version]",
	Short: "Create a VM",
	Long: `Create a new VM from an Android image and print its index.

The version defaults to vm.default_version ("96", Android 9 64-bit).`,
	Example: `  memuc-go vm create
  memuc-go vm create 76`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient(cmd)
		if err != nil {
			return err
		}
		cfg, err := settings(cmd.Context())
		if err != nil {
			return err
		}
		version := cfg.VM.DefaultVersion
		if len(args) == 1 {
			version = args[0]
		}

		var index int
		err = withSpinner(cmd, "Creating VM", func(ctx context.Context) error {
			var err error
			index, err = c.Create(ctx, version)
			return err
		})
		if err != nil {
			return err
		}
		if index < 0 {
			slogger.L(cmd.Context()).Warn("memuc did not report the new VM's index")
			return nil
		}
		fmt.Println(index)
		return nil
	},
}

var vmRemoveCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm"},
	Short:   "Delete a VM",
	Example: `  memuc-go vm remove -i 3
  memuc-go vm remove -n scratch --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		if err := sel.Validate(); err != nil {
			return err
		}
		if err := confirm(cmd, fmt.Sprintf("Remove VM %s?", sel), "This deletes the VM and its disk."); err != nil {
			return err
		}
		if err := c.Remove(cmd.Context(), sel); err != nil {
			return err
		}
		slogger.L(cmd.Context()).Info("removed vm", "vm", sel.String())
		return nil
	},
}

var vmCloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Copy a VM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}
		newName, err := cmd.Flags().GetString("new-name")
		if err != nil {
			return fmt.Errorf("get new-name flag: %w", err)
		}
		if random, _ := cmd.Flags().GetBool("random-name"); random && newName == "" {
			if newName, err = randomVMName(cmd, c); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Naming the copy", newName)
		}

		var id memuc.TaskID
		err = withSpinner(cmd, "Cloning VM "+sel.String(), func(ctx context.Context) error {
			var err error
			id, err = c.Clone(ctx, sel, memuc.CloneOptions{NewName: newName, NonBlocking: background})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "clone vm", sel.String(), id, background)
	},
}

var vmExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a VM image",
	Long:  `Export a VM to an .ova image. The file defaults to vm.ova in the current directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}
		path := optionalArg(args)

		var id memuc.TaskID
		err = withSpinner(cmd, "Exporting VM "+sel.String(), func(ctx context.Context) error {
			var err error
			id, err = c.Export(ctx, sel, path, memuc.AsyncOptions{NonBlocking: background})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "export vm", sel.String(), id, background)
	},
}

var vmImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a VM image",
	Long:  `Import a VM from an .ova image. The file defaults to vm.ova in the current directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}
		path := optionalArg(args)

		var id memuc.TaskID
		err = withSpinner(cmd, "Importing VM", func(ctx context.Context) error {
			var err error
			id, err = c.Import(ctx, path, memuc.AsyncOptions{NonBlocking: background})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "import vm", "", id, background)
	},
}

var vmRenameCmd = &cobra.Command{
	Use:   "rename [new-name]",
	Short: "Rename a VM",
	Long:  `Rename a VM. With --random-name and no new name, a random unused name is picked and printed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		newName := optionalArg(args)
		random, err := cmd.Flags().GetBool("random-name")
		if err != nil {
			return fmt.Errorf("get random-name flag: %w", err)
		}
		picked := newName == "" && random
		if picked {
			if newName, err = randomVMName(cmd, c); err != nil {
				return err
			}
		}
		if err := c.Rename(cmd.Context(), sel, newName); err != nil {
			return err
		}
		if picked {
			fmt.Println(newName)
		}
		return nil
	},
}

var vmCompressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Compact a VM's disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}

		var id memuc.TaskID
		err = withSpinner(cmd, "Compressing VM "+sel.String(), func(ctx context.Context) error {
			var err error
			id, err = c.Compress(ctx, sel, memuc.AsyncOptions{NonBlocking: background})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "compress vm", sel.String(), id, background)
	},
}

var vmListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List VMs",
	Long: `List VMs. Without --index or --name every VM is listed.

PID is -1 for a VM that is not running. DISK is only filled in with --disk.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient(cmd)
		if err != nil {
			return err
		}
		sel, err := selectorFrom(cmd)
		if err != nil {
			return err
		}
		running, err := cmd.Flags().GetBool("running")
		if err != nil {
			return fmt.Errorf("get running flag: %w", err)
		}
		disk, err := cmd.Flags().GetBool("disk")
		if err != nil {
			return fmt.Errorf("get disk flag: %w", err)
		}

		vms, err := c.List(cmd.Context(), memuc.ListOptions{Selector: sel, Running: running, DiskInfo: disk})
		if err != nil {
			return err
		}
		if len(vms) == 0 {
			slogger.L(cmd.Context()).Info("no vms found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "INDEX\tTITLE\tRUNNING\tPID\tDISK"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, vm := range vms {
			diskUsage := "-"
			if vm.DiskUsage >= 0 {
				diskUsage = strconv.FormatInt(vm.DiskUsage, 10)
			}
			if _, err := fmt.Fprintf(w, "%d\t%s\t%t\t%d\t%s\n",
				vm.Index, vm.Title, vm.Running, vm.PID, diskUsage,
			); err != nil {
				return fmt.Errorf("write vm: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}
		return nil
	},
}

var vmRunningCmd = &cobra.Command{
	Use:   "running",
	Short: "Report whether a VM is running",
	Long:  `Print "running" or "stopped". With --quiet nothing is printed and the exit status is 1 when stopped.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("get quiet flag: %w", err)
		}

		running, err := c.IsRunning(cmd.Context(), sel)
		if err != nil {
			return err
		}
		if quiet {
			if !running {
				return errStopped
			}
			return nil
		}
		if running {
			fmt.Println("running")
		} else {
			fmt.Println("stopped")
		}
		return nil
	},
}

var vmRandomizeCmd = &cobra.Command{
	Use:   "randomize",
	Short: "Give a VM a new random device identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.Randomize(cmd.Context(), sel)
	},
}

var vmStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a VM",
	Example: `  memuc-go vm start -i 0
  memuc-go vm start -n pixel --headless --timeout 2m`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}
		headless, err := cmd.Flags().GetBool("headless")
		if err != nil {
			return fmt.Errorf("get headless flag: %w", err)
		}
		timeout, err := blockingTimeout(cmd, background)
		if err != nil {
			return err
		}

		var id memuc.TaskID
		err = withSpinner(cmd, "Starting VM "+sel.String(), func(ctx context.Context) error {
			var err error
			id, err = c.Start(ctx, sel, memuc.StartOptions{Headless: headless, NonBlocking: background, Timeout: timeout})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "start vm", sel.String(), id, background)
	},
}

var vmStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a VM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}
		timeout, err := blockingTimeout(cmd, background)
		if err != nil {
			return err
		}

		var id memuc.TaskID
		err = withSpinner(cmd, "Stopping VM "+sel.String(), func(ctx context.Context) error {
			var err error
			id, err = c.Stop(ctx, sel, memuc.StopOptions{NonBlocking: background, Timeout: timeout})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "stop vm", sel.String(), id, background)
	},
}

var vmStopAllCmd = &cobra.Command{
	Use:   "stop-all",
	Short: "Stop every VM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}
		timeout, err := blockingTimeout(cmd, background)
		if err != nil {
			return err
		}

		var id memuc.TaskID
		err = withSpinner(cmd, "Stopping all VMs", func(ctx context.Context) error {
			var err error
			id, err = c.StopAll(ctx, memuc.StopOptions{NonBlocking: background, Timeout: timeout})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "stop all vms", "", id, background)
	},
}

var vmRebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot a VM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		background, err := noWait(cmd)
		if err != nil {
			return err
		}

		var id memuc.TaskID
		err = withSpinner(cmd, "Rebooting VM "+sel.String(), func(ctx context.Context) error {
			var err error
			id, err = c.Reboot(ctx, sel, memuc.AsyncOptions{NonBlocking: background})
			return err
		})
		if err != nil {
			return err
		}
		return submitted(cmd, "reboot vm", sel.String(), id, background)
	},
}

// target resolves the selector flags and the client of a per-VM command.
func target(cmd *cobra.Command) (memuc.Selector, *memuc.Client, error) {
	sel, err := selectorFrom(cmd)
	if err != nil {
		return memuc.Selector{}, nil, err
	}
	c, err := requireClient(cmd)
	if err != nil {
		return memuc.Selector{}, nil, err
	}
	return sel, c, nil
}

// randomVMName picks a name no existing VM carries.
func randomVMName(cmd *cobra.Command, c *memuc.Client) (string, error) {
	vms, err := c.List(cmd.Context(), memuc.ListOptions{})
	if err != nil {
		return "", err
	}
	taken := make([]string, len(vms))
	for i, vm := range vms {
		taken[i] = vm.Title
	}
	return names.GenerateUnique(taken, 0)
}

// blockingTimeout returns the --timeout of a command that may also run in
// the background, where a bound makes no sense.
func blockingTimeout(cmd *cobra.Command, background bool) (time.Duration, error) {
	if background {
		if cmd.Flags().Changed("timeout") {
			return 0, fmt.Errorf("--timeout: %w", memuc.ErrModeConflict)
		}
		return 0, nil
	}
	return timeoutFrom(cmd)
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	rootCmd.AddCommand(vmCmd)

	vmCmd.AddCommand(vmCreateCmd, vmRemoveCmd, vmCloneCmd, vmExportCmd, vmImportCmd,
		vmRenameCmd, vmCompressCmd, vmListCmd, vmRunningCmd, vmRandomizeCmd,
		vmStartCmd, vmStopCmd, vmStopAllCmd, vmRebootCmd)

	for _, c := range []*cobra.Command{
		vmRemoveCmd, vmCloneCmd, vmExportCmd, vmRenameCmd, vmCompressCmd, vmListCmd,
		vmRunningCmd, vmRandomizeCmd, vmStartCmd, vmStopCmd, vmRebootCmd,
	} {
		addSelectorFlags(c)
	}
	for _, c := range []*cobra.Command{
		vmCloneCmd, vmExportCmd, vmImportCmd, vmCompressCmd, vmStartCmd, vmStopCmd,
		vmStopAllCmd, vmRebootCmd,
	} {
		addNoWaitFlag(c)
	}
	for _, c := range []*cobra.Command{vmStartCmd, vmStopCmd, vmStopAllCmd} {
		addTimeoutFlag(c)
	}

	vmRemoveCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	vmCloneCmd.Flags().String("new-name", "", "name for the copy")
	vmCloneCmd.Flags().Bool("random-name", false, "give the copy a random unused name")
	vmRenameCmd.Flags().Bool("random-name", false, "pick a random unused name")
	vmListCmd.Flags().BoolP("running", "r", false, "only running VMs")
	vmListCmd.Flags().BoolP("disk", "s", false, "include disk usage")
	vmRunningCmd.Flags().BoolP("quiet", "q", false, "report through the exit status only")
	vmStartCmd.Flags().Bool("headless", false, "start without a window")
}
