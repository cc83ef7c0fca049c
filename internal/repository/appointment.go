package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/randevuapp/randevu-api/internal/domain/appointment"
)

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// Create inserts the appointment, defaulting status to booked. A concurrent
// booking that raced past the Exists pre-check loses here: the composite
// unique index rejects the insert and the violation surfaces as ErrSlotTaken.
func (r *GormAppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if a.Status == "" {
		a.Status = appointment.StatusBooked
	}
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return appointment.ErrSlotTaken
	}
	return err
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id int64) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) List(ctx context.Context) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Order("date ASC, hour ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

// Columns shared by both joined listings. Gorm scans snake_case column
// aliases into the matching Detail fields.
const detailColumns = `appointments.id,
	appointments.patient_id,
	users.name AS patient_name,
	users.surname AS patient_surname,
	appointments.doctor_id,
	doctors.full_name AS doctor_name,
	doctors.expertise AS doctor_expertise,
	appointments.date,
	appointments.hour,
	appointments.status,
	appointments.created_at`

func (r *GormAppointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*appointment.Detail, error) {
	var details []*appointment.Detail
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Select(detailColumns).
		Joins("JOIN users ON users.id = appointments.patient_id").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("appointments.patient_id = ?", patientID).
		Order("date DESC, hour DESC").
		Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *GormAppointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*appointment.Detail, error) {
	var details []*appointment.Detail
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Select(detailColumns + ", users.phone AS patient_phone").
		Joins("JOIN users ON users.id = appointments.patient_id").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("appointments.doctor_id = ?", doctorID).
		Order("date ASC, hour ASC").
		Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *GormAppointmentRepository) Exists(ctx context.Context, doctorID int64, date string, hour int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND date = ? AND hour = ?", doctorID, date, hour).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormAppointmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&appointment.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
