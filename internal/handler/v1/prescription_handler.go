package v1

import (
	"net/http"
	"strconv"

	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/clinica-suite/patients-service/internal/service"
	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	prescriptions *service.PrescriptionService
}

func NewPrescriptionHandler(prescriptions *service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions}
}

func (h *PrescriptionHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/prescriptions")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/search", h.Search)
	g.GET("/:id", h.GetByID)
	g.GET("/:id/exists", h.Exists)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	g.GET("/:id/medications", h.ListMedications)
	g.POST("/:id/medications/:medicationId", h.AddMedication)
	g.PUT("/:id/medications/:medicationId", h.UpdateMedicationDetails)
	g.DELETE("/:id/medications/:medicationId", h.RemoveMedication)
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	var req dto.PrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.prescriptions.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	req := dto.PrescriptionSearchRequest{Request: *bindPagination(c)}
	if raw := c.Query("patientId"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			req.PatientID = &id
		}
	}

	page, err := h.prescriptions.List(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PrescriptionHandler) Search(c *gin.Context) {
	var req dto.PrescriptionSearchRequest
	if !bindJSON(c, &req) {
		return
	}

	page, err := h.prescriptions.List(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PrescriptionHandler) GetByID(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.prescriptions.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrescriptionHandler) Exists(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	exists, err := h.prescriptions.Exists(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExistsResponse{Exists: exists})
}

func (h *PrescriptionHandler) Update(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req dto.PrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.prescriptions.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrescriptionHandler) Delete(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := h.prescriptions.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PrescriptionHandler) ListMedications(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	links, err := h.prescriptions.ListMedications(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *PrescriptionHandler) AddMedication(c *gin.Context) {
	prescriptionID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	medicationID, ok := parseIntParam(c, "medicationId")
	if !ok {
		return
	}

	// Dosing details are optional on link creation.
	var req dto.PrescriptionMedicationRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	resp, err := h.prescriptions.AddMedication(c.Request.Context(), prescriptionID, medicationID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PrescriptionHandler) UpdateMedicationDetails(c *gin.Context) {
	prescriptionID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	medicationID, ok := parseIntParam(c, "medicationId")
	if !ok {
		return
	}

	var req dto.PrescriptionMedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.prescriptions.UpdateMedicationDetails(c.Request.Context(), prescriptionID, medicationID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrescriptionHandler) RemoveMedication(c *gin.Context) {
	prescriptionID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	medicationID, ok := parseIntParam(c, "medicationId")
	if !ok {
		return
	}

	if err := h.prescriptions.RemoveMedication(c.Request.Context(), prescriptionID, medicationID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
