package v1

import (
	"net/http"

	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/clinica-suite/patients-service/internal/service"
	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patients      *service.PatientService
	prescriptions *service.PrescriptionService
}

func NewPatientHandler(patients *service.PatientService, prescriptions *service.PrescriptionService) *PatientHandler {
	return &PatientHandler{patients: patients, prescriptions: prescriptions}
}

func (h *PatientHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/patients")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/search", h.Search)
	g.GET("/count", h.Count)
	g.GET("/:id", h.GetByID)
	g.GET("/:id/exists", h.Exists)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/prescriptions", h.ListPrescriptions)
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req dto.PatientRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.patients.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PatientHandler) List(c *gin.Context) {
	page, err := h.patients.List(c.Request.Context(), bindPagination(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search takes the filter and paging fields in the body rather than the query
// string, mirroring the list shape.
func (h *PatientHandler) Search(c *gin.Context) {
	var req dto.PatientSearchRequest
	if !bindJSON(c, &req) {
		return
	}

	page, err := h.patients.Search(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PatientHandler) Count(c *gin.Context) {
	count, err := h.patients.CountActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func (h *PatientHandler) GetByID(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.patients.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PatientHandler) Exists(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	exists, err := h.patients.Exists(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExistsResponse{Exists: exists})
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req dto.PatientRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.patients.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := h.patients.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PatientHandler) ListPrescriptions(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	page, err := h.prescriptions.ListByPatient(c.Request.Context(), id, bindPagination(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
