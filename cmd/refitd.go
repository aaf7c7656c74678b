package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"
)

var refitdCmd = &cobra.Command{
	Use:   "refitd",
	Short: "Run the item refit job on a schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		every, _ := cmd.Flags().GetDuration("every")
		if every <= 0 {
			return fmt.Errorf("--every must be positive")
		}

		ctx := cmd.Context()
		scheduler := gocron.NewScheduler(time.UTC)
		_, err = scheduler.Every(every).Do(func() {
			to := time.Now()
			from := to.Add(-every)
			report, err := eng.Refit(ctx, from, to)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "refit failed:", err)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report %s: %d events, %d items\n",
				report.ID, report.EventCount, len(report.Rows))
		})
		if err != nil {
			return fmt.Errorf("schedule refit: %w", err)
		}
		scheduler.StartAsync()
		defer scheduler.Stop()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		}
	},
}

func init() {
	refitdCmd.Flags().Duration("every", 7*24*time.Hour, "Interval between refit runs")
}
