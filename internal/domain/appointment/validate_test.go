package appointment

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func TestValidateSlot_OK(t *testing.T) {
	cases := []struct {
		name string
		date string
		hour int
	}{
		{"future date", "2026-04-01", 10},
		{"same day", "2026-03-15", 9},
		{"opening hour", "2026-04-01", 9},
		{"closing hour", "2026-04-01", 17},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateSlot(1, tc.date, tc.hour, testNow); err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
		})
	}
}

func TestValidateSlot_MissingFields(t *testing.T) {
	if err := ValidateSlot(0, "2026-04-01", 10, testNow); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for missing doctor, got %v", err)
	}
	if err := ValidateSlot(1, "", 10, testNow); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for missing date, got %v", err)
	}
}

func TestValidateSlot_DateFormat(t *testing.T) {
	bad := []string{
		"2026/04/01",
		"26-04-01",
		"2026-4-1",
		"01-04-2026",
		"2026-04-01T10:00",
		"2026-13-40", // right shape, not a calendar day
	}
	for _, date := range bad {
		if err := ValidateSlot(1, date, 10, testNow); !errors.Is(err, ErrInvalidDateFormat) {
			t.Fatalf("date %q: expected ErrInvalidDateFormat, got %v", date, err)
		}
	}
}

func TestValidateSlot_HourOutOfRange(t *testing.T) {
	for _, hour := range []int{0, 8, 18, 23, -1} {
		if err := ValidateSlot(1, "2026-04-01", hour, testNow); !errors.Is(err, ErrHourOutOfRange) {
			t.Fatalf("hour %d: expected ErrHourOutOfRange, got %v", hour, err)
		}
	}
}

func TestValidateSlot_PastDate(t *testing.T) {
	if err := ValidateSlot(1, "2026-03-14", 10, testNow); !errors.Is(err, ErrDateInPast) {
		t.Fatalf("expected ErrDateInPast, got %v", err)
	}
	if err := ValidateSlot(1, "2020-01-01", 10, testNow); !errors.Is(err, ErrDateInPast) {
		t.Fatalf("expected ErrDateInPast, got %v", err)
	}
	// Same-day booking is allowed even late in the afternoon.
	if err := ValidateSlot(1, "2026-03-15", 17, testNow); err != nil {
		t.Fatalf("same-day booking should be allowed, got %v", err)
	}
}
