// Package mapper converts between persistence-shaped entities and wire-shaped
// DTOs. Outbound enum translation is lenient: a value the wire vocabulary does
// not know is logged and left unset instead of failing the whole conversion.
package mapper

import (
	"strings"
	"time"

	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/dto"
	"go.uber.org/zap"
)

type PatientMapper struct {
	log *zap.Logger
}

func NewPatientMapper(log *zap.Logger) *PatientMapper {
	return &PatientMapper{log: log}
}

// ToEntity builds a new entity from a create request. Server-owned fields
// (id, version, timestamps) are never taken from the caller; the record
// starts active.
func (m *PatientMapper) ToEntity(req *dto.PatientRequest) *patient.Patient {
	p := &patient.Patient{
		FirstName:         strings.TrimSpace(deref(req.FirstName)),
		LastName:          strings.TrimSpace(deref(req.LastName)),
		DocumentType:      strings.TrimSpace(deref(req.DocumentType)),
		DocumentNumber:    strings.TrimSpace(deref(req.DocumentNumber)),
		Email:             strings.ToLower(strings.TrimSpace(deref(req.Email))),
		Phone:             strings.TrimSpace(deref(req.Phone)),
		AllergyNotes:      deref(req.AllergyNotes),
		ChronicConditions: deref(req.ChronicConditions),
	}
	p.Active = true
	if req.BirthDate != nil {
		p.BirthDate = *req.BirthDate
	}
	if req.Gender != nil {
		p.Gender = patient.Gender(*req.Gender)
	}
	if req.BloodType != nil {
		p.BloodType = patient.BloodType(*req.BloodType)
	}
	return p
}

func (m *PatientMapper) ToResponse(p *patient.Patient) *dto.PatientResponse {
	if p == nil {
		return nil
	}

	resp := &dto.PatientResponse{
		ID:                p.ID,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		FullName:          p.FullName(),
		DocumentType:      p.DocumentType,
		DocumentNumber:    p.DocumentNumber,
		Email:             p.Email,
		Phone:             p.Phone,
		AllergyNotes:      p.AllergyNotes,
		ChronicConditions: p.ChronicConditions,
	}

	if !p.BirthDate.IsZero() {
		bd := p.BirthDate
		resp.BirthDate = &bd
		age := p.Age()
		resp.Age = &age
	}

	if p.Gender != "" {
		if p.Gender.IsValid() {
			resp.Gender = string(p.Gender)
		} else {
			m.log.Warn("unmappable gender value, leaving field unset",
				zap.Int("patient_id", p.ID),
				zap.String("gender", string(p.Gender)),
			)
		}
	}
	if p.BloodType != "" {
		if p.BloodType.IsValid() {
			resp.BloodType = string(p.BloodType)
		} else {
			m.log.Warn("unmappable blood type value, leaving field unset",
				zap.Int("patient_id", p.ID),
				zap.String("blood_type", string(p.BloodType)),
			)
		}
	}

	return resp
}

func (m *PatientMapper) ToResponseList(patients []*patient.Patient) []*dto.PatientResponse {
	out := make([]*dto.PatientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, m.ToResponse(p))
	}
	return out
}

// UpdateEntity applies a partial merge: only fields present in the request
// (non-nil, and non-blank for strings) overwrite the entity. It never touches
// id, createdAt, active, or version, and always refreshes updatedAt.
func (m *PatientMapper) UpdateEntity(p *patient.Patient, req *dto.PatientRequest) {
	if present(req.FirstName) {
		p.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if present(req.LastName) {
		p.LastName = strings.TrimSpace(*req.LastName)
	}
	if present(req.DocumentType) {
		p.DocumentType = strings.TrimSpace(*req.DocumentType)
	}
	if present(req.DocumentNumber) {
		p.DocumentNumber = strings.TrimSpace(*req.DocumentNumber)
	}
	if present(req.Email) {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.BirthDate != nil {
		p.BirthDate = *req.BirthDate
	}
	if present(req.Phone) {
		p.Phone = strings.TrimSpace(*req.Phone)
	}
	if present(req.AllergyNotes) {
		p.AllergyNotes = *req.AllergyNotes
	}
	if present(req.ChronicConditions) {
		p.ChronicConditions = *req.ChronicConditions
	}

	if req.Gender != nil {
		g := patient.Gender(*req.Gender)
		if g.IsValid() {
			p.Gender = g
		} else {
			m.log.Warn("unmappable gender in update, field unchanged",
				zap.Int("patient_id", p.ID),
				zap.String("gender", *req.Gender),
			)
		}
	}
	if req.BloodType != nil {
		b := patient.BloodType(*req.BloodType)
		if b.IsValid() {
			p.BloodType = b
		} else {
			m.log.Warn("unmappable blood type in update, field unchanged",
				zap.Int("patient_id", p.ID),
				zap.String("blood_type", *req.BloodType),
			)
		}
	}

	p.UpdatedAt = time.Now()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// present reports a string field that should participate in a partial merge.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
