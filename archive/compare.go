package archive

import (
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
)

// PeriodRange is a closed date range. End must not precede Start.
type PeriodRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects inverted ranges.
func (r PeriodRange) Validate() error {
	if r.End.Before(r.Start) {
		return types.Errorf(types.CodeInvalidRange, "range end %s precedes its start %s", r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

// PeriodMetrics pairs a metrics report with the range it covers.
type PeriodMetrics struct {
	Range   PeriodRange         `json:"range"`
	Metrics ProductivityMetrics `json:"metrics"`
}

// Differences holds the period-over-period deltas, computed B minus A.
type Differences struct {
	TotalItems int `json:"totalItems"`
	// PercentageChange is nil when period A is empty, to avoid a
	// divide by zero.
	PercentageChange *float64                `json:"percentageChange"`
	ItemsByType      map[models.ItemType]int `json:"itemsByType"`
}

// Comparison is the result of comparing two periods.
type Comparison struct {
	PeriodA     PeriodMetrics `json:"period1"`
	PeriodB     PeriodMetrics `json:"period2"`
	Differences Differences   `json:"differences"`
}

// Compare computes metrics for both record sets independently and
// diffs them. Both ranges are required and validated; the record
// sets are the caller's responsibility (normally one archive query
// per range).
func Compare(recordsA, recordsB []models.ArchiveRecord, rangeA, rangeB PeriodRange) (Comparison, error) {
	if err := rangeA.Validate(); err != nil {
		return Comparison{}, err
	}
	if err := rangeB.Validate(); err != nil {
		return Comparison{}, err
	}

	metricsA := ComputeMetrics(recordsA, "")
	metricsB := ComputeMetrics(recordsB, "")

	diff := Differences{
		TotalItems:  metricsB.TotalItems - metricsA.TotalItems,
		ItemsByType: make(map[models.ItemType]int),
	}
	if metricsA.TotalItems > 0 {
		pct := float64(diff.TotalItems) / float64(metricsA.TotalItems) * 100
		diff.PercentageChange = &pct
	}

	for t := range metricsA.ItemsByType {
		diff.ItemsByType[t] = metricsB.ItemsByType[t] - metricsA.ItemsByType[t]
	}
	for t := range metricsB.ItemsByType {
		if _, seen := metricsA.ItemsByType[t]; !seen {
			diff.ItemsByType[t] = metricsB.ItemsByType[t]
		}
	}

	return Comparison{
		PeriodA:     PeriodMetrics{Range: rangeA, Metrics: metricsA},
		PeriodB:     PeriodMetrics{Range: rangeB, Metrics: metricsB},
		Differences: diff,
	}, nil
}
