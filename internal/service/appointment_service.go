package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/randevuapp/randevu-api/internal/domain/appointment"
	"github.com/randevuapp/randevu-api/internal/domain/doctor"
)

type AppointmentService struct {
	repo       appointment.Repository
	doctorRepo doctor.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	doctorRepo doctor.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, doctorRepo: doctorRepo, auditSvc: auditSvc, log: log}
}

// Book runs the booking pipeline: validate, pre-check the slot, insert.
// The pre-check exists for a friendly conflict response; correctness rests
// on the store's unique index, whose violation comes back as ErrSlotTaken
// from Create just the same.
func (s *AppointmentService) Book(
	ctx context.Context,
	cmd *appointment.CreateAppointmentCommand,
	ip string,
) (*appointment.Appointment, error) {
	if err := appointment.ValidateSlot(cmd.DoctorID, cmd.Date, cmd.Hour, time.Now()); err != nil {
		return nil, err
	}

	if _, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID); err != nil {
		return nil, err
	}

	taken, err := s.repo.Exists(ctx, cmd.DoctorID, cmd.Date, cmd.Hour)
	if err != nil {
		return nil, fmt.Errorf("checking slot: %w", err)
	}
	if taken {
		return nil, appointment.ErrSlotTaken
	}

	a := &appointment.Appointment{
		PatientID: cmd.PatientID,
		DoctorID:  cmd.DoctorID,
		Date:      cmd.Date,
		Hour:      cmd.Hour,
		Status:    appointment.StatusBooked,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			return nil, err
		}
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.PatientID,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   strconv.FormatInt(a.ID, 10),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, id, callerID int64, isAdmin bool, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && a.PatientID != callerID {
		return nil, ErrForbidden
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		IsAdmin:      isAdmin,
		Action:       "read",
		ResourceType: "appointment",
		ResourceID:   strconv.FormatInt(id, 10),
		IPAddress:    ip,
	})

	return a, nil
}

// Cancel removes the appointment outright. The status column is never
// flipped to cancelled; a repeat cancel therefore reports not-found.
func (s *AppointmentService) Cancel(ctx context.Context, id, callerID int64, isAdmin bool, ip string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && a.PatientID != callerID {
		return ErrForbidden
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete appointment", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("deleting appointment: %w", err)
	}
	if !deleted {
		// Raced with another delete between the lookup and here.
		return appointment.ErrAppointmentNotFound
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		IsAdmin:      isAdmin,
		Action:       "delete",
		ResourceType: "appointment",
		ResourceID:   strconv.FormatInt(id, 10),
		IPAddress:    ip,
	})

	return nil
}

func (s *AppointmentService) List(ctx context.Context) ([]*appointment.Appointment, error) {
	return s.repo.List(ctx)
}

func (s *AppointmentService) ListByPatient(ctx context.Context, patientID int64) ([]*appointment.Detail, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *AppointmentService) ListByDoctor(ctx context.Context, doctorID int64) ([]*appointment.Detail, error) {
	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}
