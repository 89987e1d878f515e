package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/memuc"
	"github.com/pyclashbot/memuc/internal/slogger"
	"github.com/pyclashbot/memuc/internal/tasks"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Track background tasks started with --no-wait",
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Ask memuc about a background task",
	Long: `Print memuc's report on a background task. Known tasks remember the
answer, shown by "memuc-go task list".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		id := memuc.TaskID(args[0])

		status, err := c.TaskStatus(ctx, id)
		if err != nil {
			return err
		}
		fmt.Print(withNewline(status))

		store, err := taskStore(ctx)
		if err != nil {
			return err
		}
		entry, err := store.Get(ctx, id)
		if errors.Is(err, tasks.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		entry.LastStatus = firstLine(status)
		entry.CheckedAt = time.Now()
		if err := store.Update(ctx, *entry); err != nil {
			slogger.L(ctx).Warn("failed to save task status", "id", string(id), "error", err)
		}
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List remembered background tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		op, err := cmd.Flags().GetString("op")
		if err != nil {
			return fmt.Errorf("get op flag: %w", err)
		}
		since, err := cmd.Flags().GetDuration("since")
		if err != nil {
			return fmt.Errorf("get since flag: %w", err)
		}

		filter := tasks.ListFilter{Op: op}
		if since > 0 {
			filter.Since = time.Now().Add(-since)
		}

		store, err := taskStore(ctx)
		if err != nil {
			return err
		}
		entries, err := store.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		if len(entries) == 0 {
			slogger.L(ctx).Info("no tasks found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "ID\tOP\tVM\tSUBMITTED\tLAST STATUS"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, e := range entries {
			vm := e.Selector
			if vm == "" {
				vm = "-"
			}
			status := e.LastStatus
			if status == "" {
				status = "-"
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Op, vm, formatTimeAgo(e.SubmittedAt), status,
			); err != nil {
				return fmt.Errorf("write task: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}
		return nil
	},
}

var taskForgetCmd = &cobra.Command{
	Use:   "forget <id>...",
	Short: "Drop tasks from the list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := taskStore(ctx)
		if err != nil {
			return err
		}

		var errs []error
		for _, id := range args {
			if err := store.Remove(ctx, memuc.TaskID(id)); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskStatusCmd, taskListCmd, taskForgetCmd)

	taskListCmd.Flags().String("op", "", "only tasks of this operation, e.g. \"clone vm\"")
	taskListCmd.Flags().Duration("since", 0, "only tasks submitted within this long")
}
