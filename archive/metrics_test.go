package archive

import (
	"testing"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordAt(itemType models.ItemType, priority models.Priority, completedAt time.Time, completionMS int64) models.ArchiveRecord {
	rec := models.ArchiveRecord{
		UserID:      "u1",
		ItemType:    itemType,
		Status:      models.ArchiveStatusArchived,
		Title:       "rec",
		CompletedAt: completedAt,
		Priority:    priority,
	}
	if completionMS > 0 {
		rec.CompletionTime = &completionMS
	}
	return rec
}

func TestComputeMetricsTotals(t *testing.T) {
	base := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC) // a Monday
	records := []models.ArchiveRecord{
		recordAt(models.ItemTypeTask, models.PriorityHigh, base, 1000),
		recordAt(models.ItemTypeTask, models.PriorityLow, base.Add(30*time.Minute), 3000),
		recordAt(models.ItemTypeNote, "", base.AddDate(0, 0, 1), 0),
	}

	m := ComputeMetrics(records, "")

	assert.Equal(t, 3, m.TotalItems)
	assert.Equal(t, 2, m.ItemsByType[models.ItemTypeTask])
	assert.Equal(t, 1, m.ItemsByType[models.ItemTypeNote])
	assert.Equal(t, 2, m.ItemsByDay["2026-03-09"])
	assert.Equal(t, 1, m.ItemsByDay["2026-03-10"])
	assert.Equal(t, "2026-03-09", m.MostProductiveDay)

	// Records without a priority count under none.
	assert.Equal(t, 1, m.PriorityDistribution[models.PriorityHigh])
	assert.Equal(t, 1, m.PriorityDistribution[models.PriorityLow])
	assert.Equal(t, 1, m.PriorityDistribution[models.PriorityNone])

	// Mean over the two records that carry a completion time.
	assert.Equal(t, 2000.0, m.AverageCompletionTime)
}

func TestComputeMetricsMostProductiveHour(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	records := []models.ArchiveRecord{
		recordAt(models.ItemTypeTask, models.PriorityMedium, day.Add(9*time.Hour), 0),
		recordAt(models.ItemTypeTask, models.PriorityMedium, day.Add(9*time.Hour+30*time.Minute), 0),
		recordAt(models.ItemTypeTask, models.PriorityMedium, day.Add(14*time.Hour), 0),
	}

	m := ComputeMetrics(records, "")
	require.NotNil(t, m.MostProductiveHour)
	assert.Equal(t, 9, *m.MostProductiveHour)
}

func TestComputeMetricsHourTieBreaksLow(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	records := []models.ArchiveRecord{
		recordAt(models.ItemTypeTask, models.PriorityMedium, day.Add(14*time.Hour), 0),
		recordAt(models.ItemTypeTask, models.PriorityMedium, day.Add(9*time.Hour), 0),
	}

	m := ComputeMetrics(records, "")
	require.NotNil(t, m.MostProductiveHour)
	assert.Equal(t, 9, *m.MostProductiveHour)
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil, "")

	assert.Zero(t, m.TotalItems)
	assert.Nil(t, m.MostProductiveHour)
	assert.Empty(t, m.MostProductiveDay)
	assert.Zero(t, m.AverageCompletionTime)
	assert.Empty(t, m.ItemsByType)
}

func TestComputeMetricsPeriodBreakdowns(t *testing.T) {
	// Mon Mar 9 10:00, Tue Mar 10 10:00, Tue Apr 14 16:00.
	a := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	c := time.Date(2026, 4, 14, 16, 0, 0, 0, time.UTC)
	records := []models.ArchiveRecord{
		recordAt(models.ItemTypeTask, models.PriorityMedium, a, 0),
		recordAt(models.ItemTypeTask, models.PriorityMedium, b, 0),
		recordAt(models.ItemTypeTask, models.PriorityMedium, c, 0),
	}

	day := ComputeMetrics(records, PeriodDay)
	require.Len(t, day.HourlyBreakdown, 24)
	assert.Equal(t, 2, day.HourlyBreakdown[10])
	assert.Equal(t, 1, day.HourlyBreakdown[16])
	assert.Nil(t, day.DayOfWeekBreakdown)

	week := ComputeMetrics(records, PeriodWeek)
	assert.Equal(t, 1, week.DayOfWeekBreakdown["Monday"])
	assert.Equal(t, 2, week.DayOfWeekBreakdown["Tuesday"])
	assert.Nil(t, week.HourlyBreakdown)

	month := ComputeMetrics(records, PeriodMonth)
	assert.Equal(t, 1, month.DayOfMonthBreakdown[9])
	assert.Equal(t, 1, month.DayOfMonthBreakdown[10])
	assert.Equal(t, 1, month.DayOfMonthBreakdown[14])

	year := ComputeMetrics(records, PeriodYear)
	assert.Equal(t, 2, year.MonthlyBreakdown["March"])
	assert.Equal(t, 1, year.MonthlyBreakdown["April"])
}

func TestParsePeriod(t *testing.T) {
	for _, valid := range []string{"", "day", "week", "month", "year"} {
		_, err := ParsePeriod(valid)
		assert.NoError(t, err, valid)
	}
	_, err := ParsePeriod("fortnight")
	assert.Error(t, err)
}
