package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long: `Display the version, commit, and build date of memuc-go.

With --memuc, also ask memuc for its own version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("memuc-go %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)

		withMemuc, err := cmd.Flags().GetBool("memuc")
		if err != nil {
			return fmt.Errorf("get memuc flag: %w", err)
		}
		if !withMemuc {
			return nil
		}

		c, err := requireClient(cmd)
		if err != nil {
			return err
		}
		v, err := c.Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("  memuc:  %s (%s)\n", v, c.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("memuc", false, "also report memuc's version")
}
