package reporting

import (
	"errors"
	"time"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	dateLayout = "2006-01-02"
)

var (
	ErrUnknownPeriod = errors.New("unknown report period")
	ErrInvalidRange  = errors.New("invalid report range")
)

// Window computes the [start, now] reporting window for a named period.
// Daily starts at today 00:00, weekly at the most recent Sunday 00:00,
// monthly at the first of the current month 00:00.
func Window(period string, now time.Time) (time.Time, time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case PeriodDaily:
		return midnight, now, nil
	case PeriodWeekly:
		return midnight.AddDate(0, 0, -int(now.Weekday())), now, nil
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	}
	return time.Time{}, time.Time{}, ErrUnknownPeriod
}

// RangeWindow parses an explicit inclusive date range. The end date is
// extended to 23:59:59.999 so the whole final day is covered.
func RangeWindow(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	to, err := time.ParseInLocation(dateLayout, end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	to = to.Add(24*time.Hour - time.Millisecond)
	return from, to, nil
}
