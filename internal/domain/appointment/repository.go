package appointment

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)

	// List returns every appointment ordered by (date, hour) ascending.
	List(ctx context.Context) ([]*Appointment, error)

	// ListByPatient returns the joined projection ordered by (date, hour)
	// descending, most recent first for the patient's own view.
	ListByPatient(ctx context.Context, patientID int64) ([]*Detail, error)

	// ListByDoctor returns the joined projection (including the patient's
	// phone) ordered by (date, hour) ascending.
	ListByDoctor(ctx context.Context, doctorID int64) ([]*Detail, error)

	// Exists reports whether an appointment already occupies the exact
	// (doctorID, date, hour) slot.
	Exists(ctx context.Context, doctorID int64, date string, hour int) (bool, error)

	// Delete removes the row and reports whether anything was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}
