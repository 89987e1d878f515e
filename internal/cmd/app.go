package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/memuc"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Install, run and list Android apps in a VM",
}

var appInstallCmd = &cobra.Command{
	Use:     "install <apk>",
	Short:   "Install an APK",
	Example: `  memuc-go app install -i 0 ./clash.apk --shortcut`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		shortcut, err := cmd.Flags().GetBool("shortcut")
		if err != nil {
			return fmt.Errorf("get shortcut flag: %w", err)
		}

		return withSpinner(cmd, "Installing "+args[0], func(ctx context.Context) error {
			return c.InstallAPK(ctx, sel, args[0], memuc.InstallOptions{CreateShortcut: shortcut})
		})
	},
}

var appUninstallCmd = &cobra.Command{
	Use:   "uninstall <package>",
	Short: "Uninstall an app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.UninstallAPK(cmd.Context(), sel, args[0])
	},
}

var appStartCmd = &cobra.Command{
	Use:     "start <package>",
	Short:   "Launch an app",
	Example: `  memuc-go app start -i 0 com.supercell.clashroyale --timeout 30s`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		timeout, err := timeoutFrom(cmd)
		if err != nil {
			return err
		}
		return c.StartApp(cmd.Context(), sel, args[0], timeout)
	},
}

var appStopCmd = &cobra.Command{
	Use:   "stop <package>",
	Short: "Stop an app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.StopApp(cmd.Context(), sel, args[0])
	},
}

var appListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed packages",
	Long:    `List the packages installed in a running VM, one per line.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return fmt.Errorf("get timeout flag: %w", err)
		}

		pkgs, err := c.AppList(cmd.Context(), sel, timeout)
		if errors.Is(err, memuc.ErrVMNotRunning) {
			return fmt.Errorf("vm %s must be running to list its apps: %w", sel, err)
		}
		if err != nil {
			return err
		}
		if len(pkgs) > 0 {
			fmt.Println(strings.Join(pkgs, "\n"))
		}
		return nil
	},
}

var appShortcutCmd = &cobra.Command{
	Use:   "shortcut <package>",
	Short: "Create a desktop shortcut for an app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, c, err := target(cmd)
		if err != nil {
			return err
		}
		return c.CreateShortcut(cmd.Context(), sel, args[0])
	},
}

func init() {
	rootCmd.AddCommand(appCmd)
	appCmd.AddCommand(appInstallCmd, appUninstallCmd, appStartCmd, appStopCmd, appListCmd, appShortcutCmd)

	for _, c := range appCmd.Commands() {
		addSelectorFlags(c)
	}
	addTimeoutFlag(appStartCmd)

	appInstallCmd.Flags().Bool("shortcut", false, "also create a desktop shortcut")
	appListCmd.Flags().Duration("timeout", 0, "kill memuc if it runs longer than this (0 uses timeouts.app_list)")
}
