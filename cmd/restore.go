package cmd

import (
	"fmt"

	"github.com/atticdev/attic/archive"
	"github.com/spf13/cobra"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <record-id>",
	Short: "Bring an archived item back to its live collection",
	Long: `Reconstruct a live item from an archive record and delete the
record. Restored tasks come back as in-progress and restored projects
as active; due dates and end dates that have passed are pushed into
the future. Only the user who archived an item may restore it, and an
existing live item with the same identifier is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	recordID := args[0]
	userID := GetConfig().User.ID

	return runWithService("restore", func(svc *archive.Service) error {
		item, err := svc.Restore(cmd.Context(), userID, recordID)
		if err != nil {
			return fmt.Errorf("restore %s: %w", recordID, err)
		}
		return printJSON(item)
	})
}
