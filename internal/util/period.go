package util

import "time"

// ResolvePeriod turns an optional year/month filter into a closed date interval.
//
// No start year means no filtering at all: both bounds come back nil. With a
// start year, the start is the first day of the start month (January when the
// month is absent). The end bound defaults asymmetrically: an end year present
// means the last day of its end month (December when absent); otherwise a
// start month alone means that single month, and a bare start year means the
// whole year.
//
// The resolver does not check start <= end; callers reject inverted ranges
// before running reports.
func ResolvePeriod(startYear, startMonth, endYear, endMonth *int) (*time.Time, *time.Time) {
	if startYear == nil {
		return nil, nil
	}

	sm := time.January
	if startMonth != nil {
		sm = time.Month(*startMonth)
	}
	start := time.Date(*startYear, sm, 1, 0, 0, 0, 0, time.UTC)

	var end time.Time
	switch {
	case endYear != nil:
		em := time.December
		if endMonth != nil {
			em = time.Month(*endMonth)
		}
		end = LastDayOfMonth(*endYear, em)
	case startMonth != nil:
		end = LastDayOfMonth(*startYear, sm)
	default:
		end = time.Date(*startYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	return &start, &end
}

// LastDayOfMonth returns midnight UTC on the last day of the given month.
func LastDayOfMonth(year int, month time.Month) time.Time {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}
