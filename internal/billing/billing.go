// Package billing computes billing-cycle dates in a customer's timezone.
// Cycle dates keep the anchor day of the start date and clamp to the last
// day of shorter months, so a cycle anchored on the 31st bills on Feb 28
// (or 29) and returns to the 31st in March.
package billing

import (
	"fmt"
	"time"
)

// Location resolves an IANA timezone name. An empty name means UTC.
func Location(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return loc, nil
}

// NextCycle returns the billing date one month after the cycle containing
// start, anchored on start's day-of-month in the given timezone.
func NextCycle(start time.Time, tz string) (time.Time, error) {
	dates, err := CycleDates(start, 1, tz)
	if err != nil {
		return time.Time{}, err
	}
	return dates[0], nil
}

// CycleDates returns the next count monthly billing dates after start,
// anchored on start's day-of-month in the given timezone.
func CycleDates(start time.Time, count int, tz string) ([]time.Time, error) {
	loc, err := Location(tz)
	if err != nil {
		return nil, err
	}

	local := start.In(loc)
	anchorDay := local.Day()

	dates := make([]time.Time, 0, count)
	year, month := local.Year(), int(local.Month())
	for i := 0; i < count; i++ {
		month++
		if month > 12 {
			month = 1
			year++
		}

		day := anchorDay
		if max := daysInMonth(year, month); day > max {
			day = max
		}

		dates = append(dates, time.Date(
			year, time.Month(month), day,
			local.Hour(), local.Minute(), local.Second(), 0, loc,
		))
	}

	return dates, nil
}

func daysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
