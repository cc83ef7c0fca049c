package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("appointment slot is already booked")
	ErrMissingFields       = errors.New("doctor id, date and hour are required")
	ErrInvalidDateFormat   = errors.New("date must be in YYYY-MM-DD format")
	ErrHourOutOfRange      = errors.New("hour must be between 9 and 17")
	ErrDateInPast          = errors.New("cannot book an appointment on a past date")
)
