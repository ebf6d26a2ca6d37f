package archive

import (
	"testing"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareDeltas(t *testing.T) {
	jan := PeriodRange{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	feb := PeriodRange{
		Start: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
	}

	at := func(day int, month time.Month, itemType models.ItemType) models.ArchiveRecord {
		return recordAt(itemType, models.PriorityMedium, time.Date(2026, month, day, 12, 0, 0, 0, time.UTC), 0)
	}

	recordsA := []models.ArchiveRecord{
		at(5, time.January, models.ItemTypeTask),
		at(12, time.January, models.ItemTypeTask),
		at(20, time.January, models.ItemTypeNote),
	}
	recordsB := []models.ArchiveRecord{
		at(3, time.February, models.ItemTypeTask),
		at(10, time.February, models.ItemTypeSnippet),
	}

	comparison, err := Compare(recordsA, recordsB, jan, feb)
	require.NoError(t, err)

	assert.Equal(t, 3, comparison.PeriodA.Metrics.TotalItems)
	assert.Equal(t, 2, comparison.PeriodB.Metrics.TotalItems)
	assert.Equal(t, -1, comparison.Differences.TotalItems)

	require.NotNil(t, comparison.Differences.PercentageChange)
	assert.InDelta(t, -33.33, *comparison.Differences.PercentageChange, 0.01)

	// Per-type deltas cover the union of both periods.
	assert.Equal(t, -1, comparison.Differences.ItemsByType[models.ItemTypeTask])
	assert.Equal(t, -1, comparison.Differences.ItemsByType[models.ItemTypeNote])
	assert.Equal(t, 1, comparison.Differences.ItemsByType[models.ItemTypeSnippet])
}

func TestComparePercentageNilWhenFirstPeriodEmpty(t *testing.T) {
	r := PeriodRange{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	recordsB := []models.ArchiveRecord{
		recordAt(models.ItemTypeTask, models.PriorityMedium, time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), 0),
	}

	comparison, err := Compare(nil, recordsB, r, r)
	require.NoError(t, err)

	assert.Equal(t, 1, comparison.Differences.TotalItems)
	assert.Nil(t, comparison.Differences.PercentageChange)
}

func TestCompareRejectsInvertedRange(t *testing.T) {
	good := PeriodRange{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	inverted := PeriodRange{Start: good.End, End: good.Start}

	_, err := Compare(nil, nil, inverted, good)
	assert.True(t, types.IsCode(err, types.CodeInvalidRange), "got %v", err)

	_, err = Compare(nil, nil, good, inverted)
	assert.True(t, types.IsCode(err, types.CodeInvalidRange), "got %v", err)
}

func TestPeriodRangeValidate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, PeriodRange{Start: start, End: start}.Validate())
	assert.NoError(t, PeriodRange{Start: start, End: start.AddDate(0, 1, 0)}.Validate())
	assert.Error(t, PeriodRange{Start: start, End: start.Add(-time.Second)}.Validate())
}
