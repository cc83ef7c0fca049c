package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/randevuapp/randevu-api/internal/domain/appointment"
	"github.com/randevuapp/randevu-api/internal/domain/doctor"
	"github.com/randevuapp/randevu-api/internal/service"
	"github.com/randevuapp/randevu-api/pkg/metrics"
)

type AppointmentHandler struct {
	svc       *service.AppointmentService
	collector *metrics.Collector
}

func NewAppointmentHandler(svc *service.AppointmentService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, collector: collector}
}

type createAppointmentRequest struct {
	DoctorID int64  `json:"doctorId"`
	Date     string `json:"date"`
	Hour     *int   `json:"hour"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	// A missing hour and hour=0 are different mistakes; the pointer keeps
	// them apart, then both land in the validation outcome class.
	if req.Hour == nil {
		h.collector.BookingsTotal.WithLabelValues("rejected").Inc()
		respondServiceError(c, appointment.ErrMissingFields)
		return
	}

	cmd := &appointment.CreateAppointmentCommand{
		PatientID: callerID(c),
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Hour:      *req.Hour,
	}

	a, err := h.svc.Book(c.Request.Context(), cmd, c.ClientIP())
	if err != nil {
		h.collector.BookingsTotal.WithLabelValues(bookingOutcome(err)).Inc()
		respondServiceError(c, err)
		return
	}

	h.collector.BookingsTotal.WithLabelValues("booked").Inc()
	respondCreated(c, a)
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, appointment.ErrSlotTaken):
		return "conflict"
	case errors.Is(err, appointment.ErrMissingFields),
		errors.Is(err, appointment.ErrInvalidDateFormat),
		errors.Is(err, appointment.ErrHourOutOfRange),
		errors.Is(err, appointment.ErrDateInPast),
		errors.Is(err, doctor.ErrDoctorNotFound):
		return "rejected"
	default:
		return "failed"
	}
}

// Get returns a single appointment; patients can only read their own.
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.Get(c.Request.Context(), id, callerID(c), callerIsAdmin(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

// ListMine returns the caller's appointments, most recent first.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	details, err := h.svc.ListByPatient(c.Request.Context(), callerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, details)
}

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	appts, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, appts)
}

func (h *AppointmentHandler) ListByDoctor(c *gin.Context) {
	doctorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, details)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), id, callerID(c), callerIsAdmin(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"deleted": true})
}
