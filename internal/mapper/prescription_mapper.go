package mapper

import (
	"strings"
	"time"

	"github.com/clinica-suite/patients-service/internal/domain/prescription"
	"github.com/clinica-suite/patients-service/internal/dto"
	"go.uber.org/zap"
)

type PrescriptionMapper struct {
	log *zap.Logger
}

func NewPrescriptionMapper(log *zap.Logger) *PrescriptionMapper {
	return &PrescriptionMapper{log: log}
}

// ToEntity builds a new prescription. The patient linkage is established by
// the service before the insert, not taken from here.
func (m *PrescriptionMapper) ToEntity(req *dto.PrescriptionRequest) *prescription.Prescription {
	p := &prescription.Prescription{
		PrescriptionNumber: strings.TrimSpace(deref(req.PrescriptionNumber)),
		DoctorName:         strings.TrimSpace(deref(req.DoctorName)),
		DoctorLicense:      strings.TrimSpace(deref(req.DoctorLicense)),
		Notes:              deref(req.Notes),
	}
	p.Active = true
	if req.PrescriptionDate != nil {
		p.PrescriptionDate = *req.PrescriptionDate
	}
	if req.ValidUntil != nil {
		p.ValidUntil = *req.ValidUntil
	}
	if req.IsFilled != nil {
		p.IsFilled = *req.IsFilled
	}
	return p
}

func (m *PrescriptionMapper) ToResponse(p *prescription.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}
	resp := &dto.PrescriptionResponse{
		ID:                 p.ID,
		Active:             p.Active,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		PatientID:          p.PatientID,
		PrescriptionNumber: p.PrescriptionNumber,
		DoctorName:         p.DoctorName,
		DoctorLicense:      p.DoctorLicense,
		Notes:              p.Notes,
		IsFilled:           p.IsFilled,
	}
	if !p.PrescriptionDate.IsZero() {
		d := p.PrescriptionDate
		resp.PrescriptionDate = &d
	}
	if !p.ValidUntil.IsZero() {
		v := p.ValidUntil
		resp.ValidUntil = &v
	}
	return resp
}

func (m *PrescriptionMapper) ToResponseList(ps []*prescription.Prescription) []*dto.PrescriptionResponse {
	out := make([]*dto.PrescriptionResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, m.ToResponse(p))
	}
	return out
}

// UpdateEntity partial-merges the request into the prescription. PatientID is
// immutable after creation and is never part of the merge.
func (m *PrescriptionMapper) UpdateEntity(p *prescription.Prescription, req *dto.PrescriptionRequest) {
	if present(req.PrescriptionNumber) {
		p.PrescriptionNumber = strings.TrimSpace(*req.PrescriptionNumber)
	}
	if req.PrescriptionDate != nil {
		p.PrescriptionDate = *req.PrescriptionDate
	}
	if present(req.DoctorName) {
		p.DoctorName = strings.TrimSpace(*req.DoctorName)
	}
	if present(req.DoctorLicense) {
		p.DoctorLicense = strings.TrimSpace(*req.DoctorLicense)
	}
	if present(req.Notes) {
		p.Notes = *req.Notes
	}
	if req.ValidUntil != nil {
		p.ValidUntil = *req.ValidUntil
	}
	if req.IsFilled != nil {
		p.IsFilled = *req.IsFilled
	}
	p.UpdatedAt = time.Now()
}

// NewLink builds a join row for a (prescription, medication) pair from the
// dosing details in the request.
func (m *PrescriptionMapper) NewLink(prescriptionID, medicationID int, req *dto.PrescriptionMedicationRequest) *prescription.PrescriptionMedication {
	pm := &prescription.PrescriptionMedication{
		PrescriptionID: prescriptionID,
		MedicationID:   medicationID,
	}
	pm.Active = true
	if req != nil {
		pm.Dosage = deref(req.Dosage)
		pm.Frequency = deref(req.Frequency)
		pm.Duration = deref(req.Duration)
		pm.Instructions = deref(req.Instructions)
		if req.Quantity != nil {
			pm.Quantity = *req.Quantity
		}
	}
	return pm
}

// UpdateLink partial-merges the join-specific fields only.
func (m *PrescriptionMapper) UpdateLink(pm *prescription.PrescriptionMedication, req *dto.PrescriptionMedicationRequest) {
	if present(req.Dosage) {
		pm.Dosage = *req.Dosage
	}
	if present(req.Frequency) {
		pm.Frequency = *req.Frequency
	}
	if present(req.Duration) {
		pm.Duration = *req.Duration
	}
	if present(req.Instructions) {
		pm.Instructions = *req.Instructions
	}
	if req.Quantity != nil {
		pm.Quantity = *req.Quantity
	}
	pm.UpdatedAt = time.Now()
}

// LinkToResponse copies a join row outward with the embedded minimal
// medication info, not the full record.
func (m *PrescriptionMapper) LinkToResponse(pm *prescription.PrescriptionMedication) *dto.PrescriptionMedicationResponse {
	if pm == nil {
		return nil
	}
	resp := &dto.PrescriptionMedicationResponse{
		ID:           pm.ID,
		Dosage:       pm.Dosage,
		Frequency:    pm.Frequency,
		Duration:     pm.Duration,
		Instructions: pm.Instructions,
		Quantity:     pm.Quantity,
	}
	if pm.Medication != nil {
		resp.Medication = &dto.MedicationSummary{
			ID:             pm.Medication.ID,
			MedicationName: pm.Medication.MedicationName,
			GenericName:    pm.Medication.GenericName,
		}
	}
	return resp
}

func (m *PrescriptionMapper) LinkToResponseList(pms []*prescription.PrescriptionMedication) []*dto.PrescriptionMedicationResponse {
	out := make([]*dto.PrescriptionMedicationResponse, 0, len(pms))
	for _, pm := range pms {
		out = append(out, m.LinkToResponse(pm))
	}
	return out
}
