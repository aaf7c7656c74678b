package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var formCmd = &cobra.Command{
	Use:   "form <blueprint-id>",
	Short: "Assemble an exam form for a blueprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		length, _ := cmd.Flags().GetInt("length")
		seed, _ := cmd.Flags().GetInt64("seed")

		res, err := eng.BuildForm(cmd.Context(), args[0], length, seed)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !res.Feasible {
			fmt.Fprintln(out, "infeasible: pool cannot satisfy blueprint targets")
			los := make([]string, 0, len(res.Shortfalls))
			for lo := range res.Shortfalls {
				los = append(los, lo)
			}
			sort.Strings(los)
			for _, lo := range los {
				fmt.Fprintf(out, "  %s: short %d item(s)\n", lo, res.Shortfalls[lo])
			}
			return nil
		}
		for i, it := range res.Items {
			fmt.Fprintf(out, "%2d. %s  los=%v  difficulty=%.2f\n", i+1, it.ID, it.LOs, it.Difficulty)
		}
		return nil
	},
}

func init() {
	formCmd.Flags().Int("length", 20, "Number of items in the form")
	formCmd.Flags().Int64("seed", 0, "Seed for deterministic tie-breaking")
}
