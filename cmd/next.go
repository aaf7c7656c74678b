package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next <learner-id>",
	Short: "Sample the next learning objective for a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		choice, err := eng.NextObjective(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if choice == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no objective eligible")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (score %.4f, sample %.4f)\n", choice.LOID, choice.Score, choice.Sample)
		return nil
	},
}
