package mapper

import (
	"strings"
	"time"

	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/dto"
	"go.uber.org/zap"
)

type MedicationMapper struct {
	log *zap.Logger
}

func NewMedicationMapper(log *zap.Logger) *MedicationMapper {
	return &MedicationMapper{log: log}
}

func (m *MedicationMapper) ToEntity(req *dto.MedicationRequest) *medication.Medication {
	med := &medication.Medication{
		MedicationName:    strings.TrimSpace(deref(req.MedicationName)),
		GenericName:       strings.TrimSpace(deref(req.GenericName)),
		MedicationType:    strings.TrimSpace(deref(req.MedicationType)),
		Manufacturer:      strings.TrimSpace(deref(req.Manufacturer)),
		Description:       deref(req.Description),
		SideEffects:       deref(req.SideEffects),
		Contraindications: deref(req.Contraindications),
	}
	med.Active = true
	return med
}

func (m *MedicationMapper) ToResponse(med *medication.Medication) *dto.MedicationResponse {
	if med == nil {
		return nil
	}
	return &dto.MedicationResponse{
		ID:                med.ID,
		Active:            med.Active,
		CreatedAt:         med.CreatedAt,
		UpdatedAt:         med.UpdatedAt,
		MedicationName:    med.MedicationName,
		GenericName:       med.GenericName,
		MedicationType:    med.MedicationType,
		Manufacturer:      med.Manufacturer,
		Description:       med.Description,
		SideEffects:       med.SideEffects,
		Contraindications: med.Contraindications,
	}
}

func (m *MedicationMapper) ToResponseList(meds []*medication.Medication) []*dto.MedicationResponse {
	out := make([]*dto.MedicationResponse, 0, len(meds))
	for _, med := range meds {
		out = append(out, m.ToResponse(med))
	}
	return out
}

func (m *MedicationMapper) UpdateEntity(med *medication.Medication, req *dto.MedicationRequest) {
	if present(req.MedicationName) {
		med.MedicationName = strings.TrimSpace(*req.MedicationName)
	}
	if present(req.GenericName) {
		med.GenericName = strings.TrimSpace(*req.GenericName)
	}
	if present(req.MedicationType) {
		med.MedicationType = strings.TrimSpace(*req.MedicationType)
	}
	if present(req.Manufacturer) {
		med.Manufacturer = strings.TrimSpace(*req.Manufacturer)
	}
	if present(req.Description) {
		med.Description = *req.Description
	}
	if present(req.SideEffects) {
		med.SideEffects = *req.SideEffects
	}
	if present(req.Contraindications) {
		med.Contraindications = *req.Contraindications
	}
	med.UpdatedAt = time.Now()
}
