package cmd

import (
	"fmt"

	"github.com/atticdev/attic/archive"
	"github.com/spf13/cobra"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <from1> <to1> <from2> <to2>",
	Short: "Compare productivity between two date ranges",
	Long: `Compute metrics for two closed date ranges and the differences
between them: the change in total items, the percentage change, and
the per-type deltas. Dates are YYYY-MM-DD (or full RFC3339
timestamps); each range is inclusive on both ends.

Example:
  attic compare 2026-01-01 2026-01-31 2026-02-01 2026-02-28`,
	Args: cobra.ExactArgs(4),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	aStart, err := parseDateFlag(args[0], false)
	if err != nil {
		return err
	}
	aEnd, err := parseDateFlag(args[1], true)
	if err != nil {
		return err
	}
	bStart, err := parseDateFlag(args[2], false)
	if err != nil {
		return err
	}
	bEnd, err := parseDateFlag(args[3], true)
	if err != nil {
		return err
	}

	return runWithService("compare", func(svc *archive.Service) error {
		comparison, err := svc.ComparePeriods(cmd.Context(), aStart, aEnd, bStart, bEnd)
		if err != nil {
			return fmt.Errorf("compare periods: %w", err)
		}
		return printJSON(comparison)
	})
}
