package cmd

import (
	"fmt"

	"github.com/atticdev/attic/archive"
	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/store"
	"github.com/spf13/cobra"
)

var (
	listType    string
	listFrom    string
	listTo      string
	listProject string
	listSort    string
	listLimit   int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived items",
	Long: `List archive records, most recently completed first. Records can
be narrowed by item type, completion date range and project.

Examples:
  attic list
  attic list --type task --limit 20
  attic list --from 2026-01-01 --to 2026-01-31 --project p-roadmap
  attic list --sort asc`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by item type (task, project, note, bookmark, snippet)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "only records completed on or after this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "only records completed on or before this date (YYYY-MM-DD)")
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "filter by project identifier")
	listCmd.Flags().StringVar(&listSort, "sort", "desc", "order by completion time: desc or asc")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of records (0 means no limit)")
}

func runList(cmd *cobra.Command, args []string) error {
	filters := store.ArchiveFilters{
		ProjectID: listProject,
		Limit:     listLimit,
	}

	if listType != "" {
		t, err := models.ParseItemType(listType)
		if err != nil {
			return err
		}
		filters.ItemType = t
	}

	var err error
	if filters.StartDate, err = parseDateFlagPtr(listFrom, false); err != nil {
		return err
	}
	if filters.EndDate, err = parseDateFlagPtr(listTo, true); err != nil {
		return err
	}

	switch listSort {
	case "", "desc":
		filters.Sort = store.SortNewestFirst
	case "asc":
		filters.Sort = store.SortOldestFirst
	default:
		return fmt.Errorf("invalid sort order %q (want desc or asc)", listSort)
	}

	return runWithService("list", func(svc *archive.Service) error {
		records, err := svc.ListArchive(cmd.Context(), filters)
		if err != nil {
			return fmt.Errorf("list archive: %w", err)
		}
		if len(records) == 0 {
			cmd.Println("No archived items found.")
			return nil
		}
		return printJSON(records)
	})
}
