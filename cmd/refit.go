package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kadence-learn/kadence/internal/refit"
)

var refitCmd = &cobra.Command{
	Use:   "refit",
	Short: "Recompute item statistics from a window of the attempt log",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		from, to, err := refitWindow(cmd)
		if err != nil {
			return err
		}

		report, err := eng.Refit(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := writeReport(report, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report %s written to %s\n", report.ID, out)
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "report %s: %d events, %d items\n", report.ID, report.EventCount, len(report.Rows))
		for _, row := range report.Rows {
			fmt.Fprintf(w, "  %s  n=%d  correct=%d  rate=%.3f  difficulty %.3f -> %.3f\n",
				row.ItemID, row.Total, row.Correct, row.ObservedRate, row.PriorDifficulty, row.Difficulty)
		}
		return nil
	},
}

func init() {
	refitCmd.Flags().String("from", "", "Window start (RFC 3339); defaults to 7 days ago")
	refitCmd.Flags().String("to", "", "Window end (RFC 3339); defaults to now")
	refitCmd.Flags().String("out", "", "Write the full report as JSON to this path")
}

// refitWindow resolves the [from, to] window from flags, defaulting to the
// trailing week.
func refitWindow(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := time.Now()
	from, to := now.Add(-7*24*time.Hour), now

	if s, _ := cmd.Flags().GetString("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --from: %w", err)
		}
		from = t
	}
	if s, _ := cmd.Flags().GetString("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --to: %w", err)
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to precedes --from")
	}
	return from, to, nil
}

func writeReport(report *refit.Report, path string) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
