package archive

import (
	"fmt"
	"sort"
	"time"

	"github.com/atticdev/attic/models"
)

// Period selects which time-bucketed breakdown a metrics report
// carries. The empty period computes no breakdown.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a raw period string; empty is allowed.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q (want day, week, month, or year)", s)
}

// ProductivityMetrics is the aggregate report over a set of archive
// records. The always-computed fields are filled for any input; of
// the four breakdowns, only the one matching the requested period is
// populated.
type ProductivityMetrics struct {
	TotalItems            int                     `json:"totalItems"`
	ItemsByType           map[models.ItemType]int `json:"itemsByType"`
	ItemsByDay            map[string]int          `json:"itemsByDay"`
	PriorityDistribution  map[models.Priority]int `json:"priorityDistribution"`
	MostProductiveDay     string                  `json:"mostProductiveDay,omitempty"`
	// AverageCompletionTime is the mean completion time in
	// milliseconds over records that have one; 0 when none do.
	AverageCompletionTime float64 `json:"averageCompletionTime"`
	// MostProductiveHour is the local calendar hour (0-23) with the
	// most completions; nil when there are no records.
	MostProductiveHour *int `json:"mostProductiveHour,omitempty"`

	HourlyBreakdown     []int          `json:"hourlyBreakdown,omitempty"`
	DayOfWeekBreakdown  map[string]int `json:"dayOfWeekBreakdown,omitempty"`
	DayOfMonthBreakdown map[int]int    `json:"dayOfMonthBreakdown,omitempty"`
	MonthlyBreakdown    map[string]int `json:"monthlyBreakdown,omitempty"`
}

// ComputeMetrics aggregates records into a productivity report. It is
// a pure function over the record set handed to it; callers select
// the set with an archive query first. Ties in the most-productive
// picks resolve to the earliest bucket (lowest hour, first date).
func ComputeMetrics(records []models.ArchiveRecord, period Period) ProductivityMetrics {
	m := ProductivityMetrics{
		TotalItems:           len(records),
		ItemsByType:          make(map[models.ItemType]int),
		ItemsByDay:           make(map[string]int),
		PriorityDistribution: make(map[models.Priority]int),
	}

	var hourCounts [24]int
	var completionSum int64
	var completionN int

	for _, rec := range records {
		m.ItemsByType[rec.ItemType]++
		m.ItemsByDay[rec.CompletedAt.Format("2006-01-02")]++

		priority := rec.Priority
		if priority == "" {
			priority = models.PriorityNone
		}
		m.PriorityDistribution[priority]++

		hourCounts[rec.CompletedAt.Hour()]++

		if rec.CompletionTime != nil {
			completionSum += *rec.CompletionTime
			completionN++
		}
	}

	if completionN > 0 {
		m.AverageCompletionTime = float64(completionSum) / float64(completionN)
	}

	if len(records) > 0 {
		best := 0
		for h := 1; h < 24; h++ {
			if hourCounts[h] > hourCounts[best] {
				best = h
			}
		}
		m.MostProductiveHour = &best
	}

	m.MostProductiveDay = maxDayKey(m.ItemsByDay)

	switch period {
	case PeriodDay:
		m.HourlyBreakdown = hourCounts[:]
	case PeriodWeek:
		m.DayOfWeekBreakdown = make(map[string]int)
		for _, rec := range records {
			m.DayOfWeekBreakdown[rec.CompletedAt.Weekday().String()]++
		}
	case PeriodMonth:
		m.DayOfMonthBreakdown = make(map[int]int)
		for _, rec := range records {
			m.DayOfMonthBreakdown[rec.CompletedAt.Day()]++
		}
	case PeriodYear:
		m.MonthlyBreakdown = make(map[string]int)
		for _, rec := range records {
			m.MonthlyBreakdown[rec.CompletedAt.Month().String()]++
		}
	}

	return m
}

// maxDayKey picks the date with the highest count. Map iteration
// order is random in Go, so ties resolve by sorted key to stay
// deterministic.
func maxDayKey(byDay map[string]int) string {
	if len(byDay) == 0 {
		return ""
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	best := days[0]
	for _, d := range days[1:] {
		if byDay[d] > byDay[best] {
			best = d
		}
	}
	return best
}

// MetricsFilters narrows the record set a metrics request aggregates.
type MetricsFilters struct {
	Period    Period
	ItemType  models.ItemType
	StartDate *time.Time
	EndDate   *time.Time
	ProjectID string
}
