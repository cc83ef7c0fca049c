package service

import (
	"context"
	"errors"
	"testing"

	"github.com/randevuapp/randevu-api/internal/domain"
	"github.com/randevuapp/randevu-api/internal/domain/appointment"
	"github.com/randevuapp/randevu-api/internal/domain/doctor"
)

func TestBookCancelLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	patient := env.registerPatient(t, "5551112233")
	other := env.registerPatient(t, "5554445566")
	doc := env.addDoctor(t, "Dr. Mehmet Oz", "Neurology")

	cmd := &appointment.CreateAppointmentCommand{
		PatientID: patient.ID,
		DoctorID:  doc.ID,
		Date:      "2099-04-01",
		Hour:      10,
	}

	a, err := env.apptSvc.Book(ctx, cmd, "127.0.0.1")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.Status != appointment.StatusBooked {
		t.Fatalf("expected booked status, got %q", a.Status)
	}

	// Booking the identical slot again, even by another patient, conflicts.
	cmd2 := &appointment.CreateAppointmentCommand{
		PatientID: other.ID,
		DoctorID:  doc.ID,
		Date:      "2099-04-01",
		Hour:      10,
	}
	if _, err := env.apptSvc.Book(ctx, cmd2, "127.0.0.1"); !errors.Is(err, appointment.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	if err := env.apptSvc.Cancel(ctx, a.ID, patient.ID, false, "127.0.0.1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The row is gone, so a repeat cancel reports not-found.
	if err := env.apptSvc.Cancel(ctx, a.ID, patient.ID, false, "127.0.0.1"); !errors.Is(err, appointment.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}

	// And the slot can be booked again.
	if _, err := env.apptSvc.Book(ctx, cmd2, "127.0.0.1"); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestBookValidationWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	patient := env.registerPatient(t, "5551112233")
	doc := env.addDoctor(t, "Dr. Elif Demir", "Cardiology")

	cases := []struct {
		name string
		cmd  appointment.CreateAppointmentCommand
		want error
	}{
		{
			"hour before opening",
			appointment.CreateAppointmentCommand{PatientID: patient.ID, DoctorID: doc.ID, Date: "2099-04-01", Hour: 8},
			appointment.ErrHourOutOfRange,
		},
		{
			"hour after closing",
			appointment.CreateAppointmentCommand{PatientID: patient.ID, DoctorID: doc.ID, Date: "2099-04-01", Hour: 18},
			appointment.ErrHourOutOfRange,
		},
		{
			"past date",
			appointment.CreateAppointmentCommand{PatientID: patient.ID, DoctorID: doc.ID, Date: "2020-01-01", Hour: 10},
			appointment.ErrDateInPast,
		},
		{
			"bad date format",
			appointment.CreateAppointmentCommand{PatientID: patient.ID, DoctorID: doc.ID, Date: "01/04/2099", Hour: 10},
			appointment.ErrInvalidDateFormat,
		},
		{
			"missing doctor id",
			appointment.CreateAppointmentCommand{PatientID: patient.ID, DoctorID: 0, Date: "2099-04-01", Hour: 10},
			appointment.ErrMissingFields,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := tc.cmd
			if _, err := env.apptSvc.Book(ctx, &cmd, "127.0.0.1"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if n := env.countAppointments(t); n != 0 {
		t.Fatalf("rejected bookings must not write rows, found %d", n)
	}
}

func TestBookUnknownDoctor(t *testing.T) {
	env := newTestEnv(t)
	patient := env.registerPatient(t, "5551112233")

	cmd := &appointment.CreateAppointmentCommand{
		PatientID: patient.ID,
		DoctorID:  9999,
		Date:      "2099-04-01",
		Hour:      10,
	}
	if _, err := env.apptSvc.Book(context.Background(), cmd, "127.0.0.1"); !errors.Is(err, doctor.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestAppointmentOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerPatient(t, "5551112233")
	stranger := env.registerPatient(t, "5554445566")
	doc := env.addDoctor(t, "Dr. Mehmet Oz", "Neurology")

	a, err := env.apptSvc.Book(ctx, &appointment.CreateAppointmentCommand{
		PatientID: owner.ID, DoctorID: doc.ID, Date: "2099-05-01", Hour: 11,
	}, "127.0.0.1")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := env.apptSvc.Get(ctx, a.ID, stranger.ID, false, "127.0.0.1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on read, got %v", err)
	}
	if err := env.apptSvc.Cancel(ctx, a.ID, stranger.ID, false, "127.0.0.1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on cancel, got %v", err)
	}

	// Admins bypass the ownership check.
	if _, err := env.apptSvc.Get(ctx, a.ID, stranger.ID, true, "127.0.0.1"); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if err := env.apptSvc.Cancel(ctx, a.ID, stranger.ID, true, "127.0.0.1"); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestGetWritesReadAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	patient := env.registerPatient(t, "5551112233")
	doc := env.addDoctor(t, "Dr. Mehmet Oz", "Neurology")

	a, err := env.apptSvc.Book(ctx, &appointment.CreateAppointmentCommand{
		PatientID: patient.ID, DoctorID: doc.ID, Date: "2099-04-01", Hour: 10,
	}, "127.0.0.1")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := env.apptSvc.Get(ctx, a.ID, patient.ID, false, "127.0.0.1"); err != nil {
		t.Fatalf("get: %v", err)
	}

	// Drain the audit buffer before inspecting the trail.
	env.auditSvc.Shutdown()

	var reads int64
	if err := env.db.Model(&domain.AuditLog{}).
		Where("action = ? AND resource_type = ?", domain.ActionRead, "appointment").
		Count(&reads).Error; err != nil {
		t.Fatalf("count read entries: %v", err)
	}
	if reads != 1 {
		t.Fatalf("expected 1 read audit entry, got %d", reads)
	}
}

func TestListByDoctorRequiresDoctor(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.apptSvc.ListByDoctor(context.Background(), 42); !errors.Is(err, doctor.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestSameHourDifferentDoctors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	patient := env.registerPatient(t, "5551112233")
	d1 := env.addDoctor(t, "Dr. Mehmet Oz", "Neurology")
	d2 := env.addDoctor(t, "Dr. Elif Demir", "Cardiology")

	for _, id := range []int64{d1.ID, d2.ID} {
		_, err := env.apptSvc.Book(ctx, &appointment.CreateAppointmentCommand{
			PatientID: patient.ID, DoctorID: id, Date: "2099-06-01", Hour: 9,
		}, "127.0.0.1")
		if err != nil {
			t.Fatalf("doctor %d: %v", id, err)
		}
	}

	if n := env.countAppointments(t); n != 2 {
		t.Fatalf("the slot index is per doctor, expected 2 rows, got %d", n)
	}
}
