package cmd

import (
	"fmt"

	"github.com/atticdev/attic/archive"
	"github.com/spf13/cobra"
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive <type> <id>",
	Short: "Move a completed item into the archive",
	Long: `Move a completed item out of its live collection and into the
archive. The item must be in its completed state (tasks completed,
projects completed; notes, bookmarks and snippets archive as-is) and
must belong to you.

Types: task, project, note, bookmark, snippet

Examples:
  attic archive task 7f3b2c10-...
  attic archive bookmark 42`,
	Args: cobra.ExactArgs(2),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	itemType, itemID := args[0], args[1]
	userID := GetConfig().User.ID

	return runWithService("archive", func(svc *archive.Service) error {
		rec, err := svc.Archive(cmd.Context(), userID, itemType, itemID)
		if err != nil {
			return fmt.Errorf("archive %s %s: %w", itemType, itemID, err)
		}
		return printJSON(rec)
	})
}
