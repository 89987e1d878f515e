package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/slogger"
	"github.com/pyclashbot/memuc/internal/transcript"
)

var errTranscriptDisabled = errors.New("transcript disabled (storage.transcript is empty)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent memuc invocations",
	Long: `Show recent memuc invocations from the transcript (storage.transcript).

EXIT is -1 when memuc could not be started or was killed.`,
	Example: `  memuc-go history
  memuc-go history --failed -c 50
  memuc-go history --verb listvms --since 1h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		count, err := cmd.Flags().GetInt("count")
		if err != nil {
			return fmt.Errorf("get count flag: %w", err)
		}
		verb, err := cmd.Flags().GetString("verb")
		if err != nil {
			return fmt.Errorf("get verb flag: %w", err)
		}
		failed, err := cmd.Flags().GetBool("failed")
		if err != nil {
			return fmt.Errorf("get failed flag: %w", err)
		}
		since, err := cmd.Flags().GetDuration("since")
		if err != nil {
			return fmt.Errorf("get since flag: %w", err)
		}
		showOutput, err := cmd.Flags().GetBool("output")
		if err != nil {
			return fmt.Errorf("get output flag: %w", err)
		}

		cfg, err := settings(ctx)
		if err != nil {
			return err
		}
		if cfg.Storage.Transcript == "" {
			return errTranscriptDisabled
		}

		filter := transcript.Filter{Verb: verb, FailedOnly: failed}
		if since > 0 {
			filter.Since = time.Now().Add(-since)
		}
		entries, err := transcript.NewReader(cfg.Storage.Transcript).Tail(count, filter)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			slogger.L(ctx).Info("no invocations recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "TIME\tEXIT\tDURATION\tCOMMAND"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, e := range entries {
			exit := fmt.Sprint(e.ExitCode)
			if e.TimedOut {
				exit = "timeout"
			}
			duration := (time.Duration(e.DurationMS) * time.Millisecond).String()
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				e.Time.Local().Format(time.DateTime), exit, duration, shellquote.Join(e.Args...),
			); err != nil {
				return fmt.Errorf("write entry: %w", err)
			}
			if showOutput && (e.Output != "" || e.Error != "") {
				text := e.Output
				if e.Error != "" {
					text = e.Error
				}
				if _, err := fmt.Fprintf(w, "\t\t\t%s\n", firstLine(text)); err != nil {
					return fmt.Errorf("write entry: %w", err)
				}
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("count", "c", transcript.DefaultTail, "number of invocations to show")
	historyCmd.Flags().String("verb", "", "only invocations of this memuc verb")
	historyCmd.Flags().Bool("failed", false, "only failed or timed out invocations")
	historyCmd.Flags().Duration("since", 0, "only invocations within this long")
	historyCmd.Flags().Bool("output", false, "show the first line of each invocation's output")
}
