package util

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod_NoStartYear(t *testing.T) {
	start, end := ResolvePeriod(nil, nil, nil, nil)
	if start != nil || end != nil {
		t.Fatalf("Expected (nil, nil), got (%v, %v)", start, end)
	}

	// A start month without a start year is still "all time"
	start, end = ResolvePeriod(nil, intPtr(3), nil, nil)
	if start != nil || end != nil {
		t.Fatalf("Expected (nil, nil), got (%v, %v)", start, end)
	}
}

func TestResolvePeriod_WholeYear(t *testing.T) {
	start, end := ResolvePeriod(intPtr(2024), nil, nil, nil)
	if start == nil || end == nil {
		t.Fatal("Expected non-nil bounds")
	}
	if !start.Equal(date(2024, time.January, 1)) {
		t.Errorf("Expected start 2024-01-01, got %v", start)
	}
	if !end.Equal(date(2024, time.December, 31)) {
		t.Errorf("Expected end 2024-12-31, got %v", end)
	}
}

func TestResolvePeriod_SingleMonth(t *testing.T) {
	start, end := ResolvePeriod(intPtr(2024), intPtr(3), nil, nil)
	if !start.Equal(date(2024, time.March, 1)) {
		t.Errorf("Expected start 2024-03-01, got %v", start)
	}
	if !end.Equal(date(2024, time.March, 31)) {
		t.Errorf("Expected end 2024-03-31, got %v", end)
	}
}

func TestResolvePeriod_FebruaryLeapYear(t *testing.T) {
	_, end := ResolvePeriod(intPtr(2024), intPtr(2), nil, nil)
	if !end.Equal(date(2024, time.February, 29)) {
		t.Errorf("Expected end 2024-02-29, got %v", end)
	}

	_, end = ResolvePeriod(intPtr(2023), intPtr(2), nil, nil)
	if !end.Equal(date(2023, time.February, 28)) {
		t.Errorf("Expected end 2023-02-28, got %v", end)
	}
}

func TestResolvePeriod_StartYearToEndYear(t *testing.T) {
	start, end := ResolvePeriod(intPtr(2024), nil, intPtr(2025), nil)
	if !start.Equal(date(2024, time.January, 1)) {
		t.Errorf("Expected start 2024-01-01, got %v", start)
	}
	if !end.Equal(date(2025, time.December, 31)) {
		t.Errorf("Expected end 2025-12-31, got %v", end)
	}
}

func TestResolvePeriod_FullRange(t *testing.T) {
	start, end := ResolvePeriod(intPtr(2024), intPtr(4), intPtr(2024), intPtr(6))
	if !start.Equal(date(2024, time.April, 1)) {
		t.Errorf("Expected start 2024-04-01, got %v", start)
	}
	if !end.Equal(date(2024, time.June, 30)) {
		t.Errorf("Expected end 2024-06-30, got %v", end)
	}
}

func TestResolvePeriod_EndYearWithoutEndMonth(t *testing.T) {
	// End month defaults to December when an end year is present
	start, end := ResolvePeriod(intPtr(2024), intPtr(5), intPtr(2024), nil)
	if !start.Equal(date(2024, time.May, 1)) {
		t.Errorf("Expected start 2024-05-01, got %v", start)
	}
	if !end.Equal(date(2024, time.December, 31)) {
		t.Errorf("Expected end 2024-12-31, got %v", end)
	}
}

func TestResolvePeriod_InvertedRangeNotValidated(t *testing.T) {
	// The resolver leaves inverted ranges to the caller
	start, end := ResolvePeriod(intPtr(2025), nil, intPtr(2024), nil)
	if start == nil || end == nil {
		t.Fatal("Expected non-nil bounds")
	}
	if !end.Before(*start) {
		t.Errorf("Expected inverted range to pass through, got start=%v end=%v", start, end)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
		{2023, time.February, 28},
	}
	for _, tc := range cases {
		got := LastDayOfMonth(tc.year, tc.month)
		if got.Day() != tc.want {
			t.Errorf("LastDayOfMonth(%d, %v) = %v, want day %d", tc.year, tc.month, got, tc.want)
		}
	}
}
