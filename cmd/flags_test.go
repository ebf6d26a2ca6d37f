package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFlag(t *testing.T) {
	t.Run("plain date marks start of day", func(t *testing.T) {
		got, err := parseDateFlag("2026-03-01", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("plain end date covers the whole day", func(t *testing.T) {
		got, err := parseDateFlag("2026-03-01", true)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), got)
	})

	t.Run("rfc3339 timestamp is taken as-is", func(t *testing.T) {
		got, err := parseDateFlag("2026-03-01T09:30:00+02:00", true)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC), got)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := parseDateFlag("yesterday", false)
		assert.Error(t, err)
	})
}

func TestParseDateFlagPtr(t *testing.T) {
	got, err := parseDateFlagPtr("", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDateFlagPtr("2026-03-01", false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	_, err = parseDateFlagPtr("not-a-date", false)
	assert.Error(t, err)
}
