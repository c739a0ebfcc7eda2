package booking

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

// TimeSlots are the seven fixed two-hour reservation windows. Bookings
// occupy a whole slot; there is no sub-range overlap.
var TimeSlots = []string{
	"08:00 - 10:00 AM",
	"10:00 - 12:00 PM",
	"12:00 - 02:00 PM",
	"02:00 - 04:00 PM",
	"04:00 - 06:00 PM",
	"06:00 - 08:00 PM",
	"08:00 - 10:00 PM",
}

var (
	ErrUnknownSlot  = errors.New("unknown time slot")
	ErrPastTimeSlot = errors.New("time slot has already started")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
)

// SlotStartHour returns the 24h start hour of a slot (8, 10, ... 20).
func SlotStartHour(slot string) (int, error) {
	for i, s := range TimeSlots {
		if s == slot {
			return 8 + 2*i, nil
		}
	}
	return 0, ErrUnknownSlot
}

// ValidateSlotTime rejects a booking for today whose slot start is at or
// before the current wall-clock time. Dates in the past are rejected
// outright; future dates always pass.
func ValidateSlotTime(date, slot string, now time.Time) error {
	startHour, err := SlotStartHour(slot)
	if err != nil {
		return err
	}

	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return ErrInvalidDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return ErrPastTimeSlot
	}
	if day.Equal(today) {
		start := day.Add(time.Duration(startHour) * time.Hour)
		if !start.After(now) {
			return ErrPastTimeSlot
		}
	}
	return nil
}
