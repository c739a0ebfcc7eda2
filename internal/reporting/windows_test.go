package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	// Fixed clock: Wednesday 2025-06-11 at 15:45 local time.
	now := time.Date(2025, time.June, 11, 15, 45, 0, 0, time.Local)

	tests := []struct {
		name          string
		period        string
		expectedStart time.Time
		expectedError error
	}{
		{
			name:          "daily_starts_at_midnight",
			period:        PeriodDaily,
			expectedStart: time.Date(2025, time.June, 11, 0, 0, 0, 0, time.Local),
		},
		{
			name:          "weekly_starts_most_recent_sunday",
			period:        PeriodWeekly,
			expectedStart: time.Date(2025, time.June, 8, 0, 0, 0, 0, time.Local),
		},
		{
			name:          "monthly_starts_first_of_month",
			period:        PeriodMonthly,
			expectedStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:          "unknown_period",
			period:        "quarterly",
			expectedError: ErrUnknownPeriod,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			start, end, err := Window(testCase.period, now)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedStart, start)
			assert.Equal(t, now, end)
		})
	}
}

func TestWeeklyWindowExcludesPriorSaturday(t *testing.T) {
	now := time.Date(2025, time.June, 11, 15, 45, 0, 0, time.Local)
	start, end, err := Window(PeriodWeekly, now)
	require.NoError(t, err)

	priorSaturday := time.Date(2025, time.June, 7, 18, 0, 0, 0, time.Local)
	assert.True(t, priorSaturday.Before(start))

	withinWeek := time.Date(2025, time.June, 9, 12, 0, 0, 0, time.Local)
	assert.False(t, withinWeek.Before(start))
	assert.False(t, withinWeek.After(end))
}

func TestWeeklyWindowOnSunday(t *testing.T) {
	// On Sunday the window starts the same day at midnight.
	now := time.Date(2025, time.June, 8, 10, 0, 0, 0, time.Local)
	start, _, err := Window(PeriodWeekly, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 8, 0, 0, 0, 0, time.Local), start)
}

func TestRangeWindow(t *testing.T) {
	from, to, err := RangeWindow("2025-06-01", "2025-06-10", time.Local)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local), from)

	// The final day is included up to 23:59:59.999.
	lastMoment := time.Date(2025, time.June, 10, 23, 59, 59, int(999*time.Millisecond), time.Local)
	assert.Equal(t, lastMoment, to)

	paymentOnFinalDay := time.Date(2025, time.June, 10, 21, 15, 0, 0, time.Local)
	assert.False(t, paymentOnFinalDay.After(to))
}

func TestRangeWindowErrors(t *testing.T) {
	_, _, err := RangeWindow("2025-06-10", "2025-06-01", time.Local)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = RangeWindow("June 1", "2025-06-10", time.Local)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = RangeWindow("2025-06-01", "bad", time.Local)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
