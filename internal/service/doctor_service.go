package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/randevuapp/randevu-api/internal/domain/doctor"
)

type DoctorService struct {
	repo     doctor.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewDoctorService(repo doctor.Repository, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *DoctorService) AddDoctor(ctx context.Context, fullName, expertise string, callerID int64, ip string) (*doctor.Doctor, error) {
	if fullName == "" || expertise == "" {
		return nil, doctor.ErrFullNameRequired
	}

	if _, err := s.repo.GetByFullName(ctx, fullName); err == nil {
		return nil, doctor.ErrDoctorAlreadyExists
	} else if !errors.Is(err, doctor.ErrDoctorNotFound) {
		return nil, fmt.Errorf("checking doctor: %w", err)
	}

	d := &doctor.Doctor{FullName: fullName, Expertise: expertise}
	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, doctor.ErrDoctorAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, fmt.Errorf("creating doctor: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		IsAdmin:      true,
		Action:       "create",
		ResourceType: "doctor",
		ResourceID:   strconv.FormatInt(d.ID, 10),
		IPAddress:    ip,
	})

	return d, nil
}

// DeleteDoctor removes the doctor; the store cascades the delete to every
// appointment referencing them.
func (s *DoctorService) DeleteDoctor(ctx context.Context, id, callerID int64, ip string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete doctor", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("deleting doctor: %w", err)
	}
	if !deleted {
		return doctor.ErrDoctorNotFound
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		IsAdmin:      true,
		Action:       "delete",
		ResourceType: "doctor",
		ResourceID:   strconv.FormatInt(id, 10),
		IPAddress:    ip,
	})

	return nil
}

func (s *DoctorService) ListDoctors(ctx context.Context) ([]*doctor.Doctor, error) {
	return s.repo.List(ctx)
}
