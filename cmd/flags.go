package cmd

import (
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

// parseDateFlag accepts either a plain date or a full RFC3339
// timestamp. Plain dates mark the start of the day in UTC; endOfDay
// pushes them to the last instant of that day instead, so that
// --to 2026-03-01 includes the whole of March 1st.
func parseDateFlag(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", value)
	}
	t = t.UTC()
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseDateFlagPtr is parseDateFlag for optional flags: an empty
// value yields nil.
func parseDateFlagPtr(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDateFlag(value, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
