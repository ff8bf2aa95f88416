package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketLabel(t *testing.T) {
	ts := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-01-02", BucketLabel(PeriodDaily, ts))
	assert.Equal(t, "2025-01", BucketLabel(PeriodMonthly, ts))
	// Jan 2 2025 falls in ISO week 1 of 2025
	assert.Equal(t, "2025-W01", BucketLabel(PeriodWeekly, ts))

	// end-of-year days can belong to the next ISO year
	assert.Equal(t, "2025-W01", BucketLabel(PeriodWeekly, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
}

func TestBucketLabelsCountAndOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	daily := BucketLabels(PeriodDaily, now, 30)
	require.Len(t, daily, 30)
	assert.Equal(t, "2025-05-17", daily[0])
	assert.Equal(t, "2025-06-15", daily[29])

	weekly := BucketLabels(PeriodWeekly, now, 12)
	require.Len(t, weekly, 12)
	assert.Equal(t, BucketLabel(PeriodWeekly, now), weekly[11])

	monthly := BucketLabels(PeriodMonthly, now, 12)
	require.Len(t, monthly, 12)
	assert.Equal(t, "2024-07", monthly[0])
	assert.Equal(t, "2025-06", monthly[11])
}

func TestBucketLabelsMonthlyFromMonthEnd(t *testing.T) {
	// Subtracting months from a day-31 date would normalize into the wrong
	// month; labels must still walk back one real month per bucket.
	now := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)

	monthly := BucketLabels(PeriodMonthly, now, 12)
	require.Len(t, monthly, 12)
	assert.Equal(t, []string{
		"2024-04", "2024-05", "2024-06", "2024-07", "2024-08", "2024-09",
		"2024-10", "2024-11", "2024-12", "2025-01", "2025-02", "2025-03",
	}, monthly)

	_, since := PeriodWindow(PeriodMonthly, now)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), since)
}

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	n, since := PeriodWindow(PeriodDaily, now)
	assert.Equal(t, 30, n)
	assert.Equal(t, now.AddDate(0, 0, -29), since)

	n, since = PeriodWindow(PeriodWeekly, now)
	assert.Equal(t, 12, n)
	assert.Equal(t, now.AddDate(0, 0, -77), since)

	n, _ = PeriodWindow(PeriodMonthly, now)
	assert.Equal(t, 12, n)
}
