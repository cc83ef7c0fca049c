package appointment

import (
	"time"

	"github.com/randevuapp/randevu-api/internal/domain"
	"github.com/randevuapp/randevu-api/internal/domain/doctor"
)

// Bookable hours of a working day, inclusive. Slots are whole hours.
const (
	MinHour = 9
	MaxHour = 17
)

// DateLayout is the wire and storage format for appointment dates.
const DateLayout = "2006-01-02"

// Status values mirror the persisted enum. Cancellation is a hard delete,
// so nothing in the booking flow ever writes completed or cancelled; the
// values exist for operators mutating rows out of band.
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	PatientID int64 `gorm:"column:patient_id;not null;index" json:"patientId"`
	DoctorID  int64 `gorm:"column:doctor_id;not null;uniqueIndex:idx_appointments_slot" json:"doctorId"`

	// One row per (doctor_id, date, hour). The composite unique index is the
	// authoritative conflict guard; the Exists pre-check only improves the
	// error the caller sees.
	Date string `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_appointments_slot" json:"date"`
	Hour int    `gorm:"column:hour;not null;uniqueIndex:idx_appointments_slot" json:"hour"`

	Status AppointmentStatus `gorm:"column:status;type:varchar(20);not null;default:'booked'" json:"status"`

	Patient *domain.User   `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Doctor  *doctor.Doctor `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Detail is the read projection joined with the owning user and doctor,
// used by the patient- and doctor-facing listings.
type Detail struct {
	ID              int64             `json:"id"`
	PatientID       int64             `json:"patientId"`
	PatientName     string            `json:"name"`
	PatientSurname  string            `json:"surname"`
	PatientPhone    string            `json:"phone,omitempty"`
	DoctorID        int64             `json:"doctorId"`
	DoctorName      string            `json:"doctorName"`
	DoctorExpertise string            `json:"doctorExpertise"`
	Date            string            `json:"date"`
	Hour            int               `json:"hour"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type CreateAppointmentCommand struct {
	PatientID int64
	DoctorID  int64
	Date      string
	Hour      int
}
