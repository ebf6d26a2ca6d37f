package cmd

import (
	"fmt"

	"github.com/atticdev/attic/archive"
	"github.com/atticdev/attic/models"
	"github.com/spf13/cobra"
)

var (
	statsPeriod  string
	statsType    string
	statsFrom    string
	statsTo      string
	statsProject string
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report productivity metrics over the archive",
	Long: `Aggregate the archive into a productivity report: totals by type
and day, priority distribution, the most productive day, and average
completion time. The --period flag adds a breakdown at the matching
granularity (hours of the day, days of the week, days of the month,
or months of the year).

Examples:
  attic stats
  attic stats --period week
  attic stats --period month --type task --project p-roadmap
  attic stats --from 2026-01-01 --to 2026-06-30`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsPeriod, "period", "", "breakdown granularity: day, week, month or year")
	statsCmd.Flags().StringVarP(&statsType, "type", "t", "", "filter by item type")
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "only records completed on or after this date (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "only records completed on or before this date (YYYY-MM-DD)")
	statsCmd.Flags().StringVarP(&statsProject, "project", "p", "", "filter by project identifier")
}

func runStats(cmd *cobra.Command, args []string) error {
	filters := archive.MetricsFilters{ProjectID: statsProject}

	period, err := archive.ParsePeriod(statsPeriod)
	if err != nil {
		return err
	}
	filters.Period = period

	if statsType != "" {
		t, err := models.ParseItemType(statsType)
		if err != nil {
			return err
		}
		filters.ItemType = t
	}
	if filters.StartDate, err = parseDateFlagPtr(statsFrom, false); err != nil {
		return err
	}
	if filters.EndDate, err = parseDateFlagPtr(statsTo, true); err != nil {
		return err
	}

	return runWithService("stats", func(svc *archive.Service) error {
		metrics, err := svc.Metrics(cmd.Context(), filters)
		if err != nil {
			return fmt.Errorf("compute metrics: %w", err)
		}
		return printJSON(metrics)
	})
}
