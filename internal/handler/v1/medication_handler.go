package v1

import (
	"net/http"

	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/clinica-suite/patients-service/internal/service"
	"github.com/gin-gonic/gin"
)

type MedicationHandler struct {
	medications *service.MedicationService
}

func NewMedicationHandler(medications *service.MedicationService) *MedicationHandler {
	return &MedicationHandler{medications: medications}
}

func (h *MedicationHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/medications")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/search", h.Search)
	g.GET("/count", h.Count)
	g.GET("/:id", h.GetByID)
	g.GET("/:id/exists", h.Exists)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *MedicationHandler) Create(c *gin.Context) {
	var req dto.MedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.medications.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MedicationHandler) List(c *gin.Context) {
	page, err := h.medications.List(c.Request.Context(), bindPagination(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MedicationHandler) Search(c *gin.Context) {
	var req dto.MedicationSearchRequest
	if !bindJSON(c, &req) {
		return
	}

	page, err := h.medications.Search(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MedicationHandler) Count(c *gin.Context) {
	count, err := h.medications.CountActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func (h *MedicationHandler) GetByID(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.medications.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicationHandler) Exists(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	exists, err := h.medications.Exists(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExistsResponse{Exists: exists})
}

func (h *MedicationHandler) Update(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req dto.MedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.medications.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicationHandler) Delete(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := h.medications.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
