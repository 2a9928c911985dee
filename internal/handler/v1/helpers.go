package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/domain/prescription"
	"github.com/clinica-suite/patients-service/internal/service"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, medication.ErrMedicationNotFound),
		errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, prescription.ErrMedicationNotLinked):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrEmailAlreadyUsed),
		errors.Is(err, prescription.ErrMedicationAlreadyLinked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrConcurrentModification):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "CONCURRENT_MODIFICATION",
		})

	case errors.Is(err, prescription.ErrPatientIDRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseIntParam(c *gin.Context, param string) (int, bool) {
	raw := c.Param(param)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a positive integer"})
		return 0, false
	}
	return id, true
}

// bindPagination never rejects a request: unparseable paging values fall
// back to defaults downstream.
func bindPagination(c *gin.Context) *pagination.Request {
	var q pagination.Request
	_ = c.ShouldBindQuery(&q)
	return &q
}
