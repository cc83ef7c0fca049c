package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/randevuapp/randevu-api/internal/service"
)

type DoctorHandler struct {
	svc *service.DoctorService
}

func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

type addDoctorRequest struct {
	FullName  string `json:"fullname"`
	Expertise string `json:"expertise"`
}

func (h *DoctorHandler) Add(c *gin.Context) {
	var req addDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.AddDoctor(c.Request.Context(), req.FullName, req.Expertise, callerID(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, d)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteDoctor(c.Request.Context(), id, callerID(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"deleted": true})
}

func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.svc.ListDoctors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, doctors)
}
