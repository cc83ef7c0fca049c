package appointment

import (
	"regexp"
	"time"
)

// Syntactic shape only; whether the digits form a real calendar day is
// decided by the parse below.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateSlot checks a proposed booking without touching the store.
// Same-day bookings are allowed; the cutoff is midnight in now's location.
func ValidateSlot(doctorID int64, date string, hour int, now time.Time) error {
	if doctorID <= 0 || date == "" {
		return ErrMissingFields
	}
	if !datePattern.MatchString(date) {
		return ErrInvalidDateFormat
	}
	if hour < MinHour || hour > MaxHour {
		return ErrHourOutOfRange
	}

	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return ErrInvalidDateFormat
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return ErrDateInPast
	}

	return nil
}
