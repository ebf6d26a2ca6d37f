package cmd

import (
	"fmt"
	"time"

	"github.com/atticdev/attic/archive"
	"github.com/spf13/cobra"
)

var reconcileGraceMinutes int

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Resolve archive operations interrupted mid-move",
	Long: `Sweep the archive for records left in the pending state by an
interrupted archive operation. A pending record whose live item is
gone is finalized; one whose live item still exists is rolled back.
Records younger than the grace window are left alone, since the
operation that created them may still be running.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().IntVar(&reconcileGraceMinutes, "grace", -1, "grace window in minutes (default from config)")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	minutes := reconcileGraceMinutes
	if minutes < 0 {
		minutes = GetConfig().Archive.PendingGraceMinutes
	}
	grace := time.Duration(minutes) * time.Minute

	return runWithService("reconcile", func(svc *archive.Service) error {
		result, err := svc.ReconcilePending(cmd.Context(), grace)
		if err != nil {
			return fmt.Errorf("reconcile pending records: %w", err)
		}
		cmd.Printf("Reconciled %d pending record(s): %d finalized, %d rolled back.\n",
			result.Finalized+result.RolledBack, result.Finalized, result.RolledBack)
		return nil
	})
}
