package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/domain/prescription"
	"github.com/clinica-suite/patients-service/internal/dto"
	"github.com/clinica-suite/patients-service/internal/mapper"
	"github.com/clinica-suite/patients-service/pkg/metrics"
	"go.uber.org/zap"
)

type PrescriptionService struct {
	repo        prescription.Repository
	patients    patient.Repository
	medications medication.Repository
	mapper      *mapper.PrescriptionMapper
	audit       *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
}

func NewPrescriptionService(
	repo prescription.Repository,
	patients patient.Repository,
	medications medication.Repository,
	m *mapper.PrescriptionMapper,
	audit *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		repo:        repo,
		patients:    patients,
		medications: medications,
		mapper:      m,
		audit:       audit,
		metrics:     collector,
		log:         log,
	}
}

// Create issues a prescription for an existing patient. The patient linkage
// is mandatory and immutable afterwards.
func (s *PrescriptionService) Create(ctx context.Context, req *dto.PrescriptionRequest) (*dto.PrescriptionResponse, error) {
	if req.PatientID == nil || *req.PatientID <= 0 {
		return nil, prescription.ErrPatientIDRequired
	}

	exists, err := s.patients.Exists(ctx, *req.PatientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, patient.ErrPatientNotFound
	}

	p := s.mapper.ToEntity(req)
	p.PatientID = *req.PatientID
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.ActionCreate, "prescription", strconv.Itoa(p.ID))
	s.metrics.RecordsCreated.WithLabelValues("prescription").Inc()
	s.log.Info("prescription created",
		zap.Int("prescription_id", p.ID),
		zap.Int("patient_id", p.PatientID),
	)

	return s.mapper.ToResponse(p), nil
}

func (s *PrescriptionService) GetByID(ctx context.Context, id int) (*dto.PrescriptionResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToResponse(p), nil
}

// List returns active prescriptions, optionally narrowed to one patient via
// the search request.
func (s *PrescriptionService) List(ctx context.Context, req *dto.PrescriptionSearchRequest) (*dto.Page[*dto.PrescriptionResponse], error) {
	d := pagination.Normalize(&req.Request)

	patientID := 0
	if req.PatientID != nil {
		patientID = *req.PatientID
	}

	page, err := s.repo.List(ctx, patientID, d)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(s.mapper.ToResponseList(page.Prescriptions), page.TotalCount, d), nil
}

// ListByPatient pages through one patient's prescriptions. A missing patient
// is an error rather than an empty page, so callers can tell the two apart.
func (s *PrescriptionService) ListByPatient(ctx context.Context, patientID int, pg *pagination.Request) (*dto.Page[*dto.PrescriptionResponse], error) {
	exists, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, patient.ErrPatientNotFound
	}

	d := pagination.Normalize(pg)
	page, err := s.repo.List(ctx, patientID, d)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(s.mapper.ToResponseList(page.Prescriptions), page.TotalCount, d), nil
}

func (s *PrescriptionService) Update(ctx context.Context, id int, req *dto.PrescriptionRequest) (*dto.PrescriptionResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mapper.UpdateEntity(p, req)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.ActionUpdate, "prescription", strconv.Itoa(p.ID))
	return s.mapper.ToResponse(p), nil
}

func (s *PrescriptionService) Delete(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.ActionDelete, "prescription", strconv.Itoa(id))
	s.metrics.RecordsDeleted.WithLabelValues("prescription").Inc()
	s.log.Info("prescription deactivated", zap.Int("prescription_id", id))
	return nil
}

func (s *PrescriptionService) Exists(ctx context.Context, id int) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// AddMedication links a medication to a prescription with its dosing details.
// Linking the same pair twice is a conflict while the link is active.
func (s *PrescriptionService) AddMedication(ctx context.Context, prescriptionID, medicationID int, req *dto.PrescriptionMedicationRequest) (*dto.PrescriptionMedicationResponse, error) {
	if err := s.requirePrescription(ctx, prescriptionID); err != nil {
		return nil, err
	}

	med, err := s.medications.GetByID(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetMedicationLink(ctx, prescriptionID, medicationID)
	switch {
	case err == nil:
		return nil, prescription.ErrMedicationAlreadyLinked
	case !errors.Is(err, prescription.ErrMedicationNotLinked):
		return nil, err
	}

	pm := s.mapper.NewLink(prescriptionID, medicationID, req)
	if err := s.repo.AddMedicationLink(ctx, pm); err != nil {
		return nil, err
	}
	pm.Medication = med

	s.audit.Record(ctx, domain.ActionUpdate, "prescription", strconv.Itoa(prescriptionID))
	s.log.Info("medication linked to prescription",
		zap.Int("prescription_id", prescriptionID),
		zap.Int("medication_id", medicationID),
	)

	return s.mapper.LinkToResponse(pm), nil
}

// RemoveMedication unlinks a medication by deactivating the join row. The
// dosing history stays queryable for audit purposes.
func (s *PrescriptionService) RemoveMedication(ctx context.Context, prescriptionID, medicationID int) error {
	if err := s.requirePrescription(ctx, prescriptionID); err != nil {
		return err
	}

	pm, err := s.repo.GetMedicationLink(ctx, prescriptionID, medicationID)
	if err != nil {
		return err
	}

	pm.Active = false
	if err := s.repo.SaveMedicationLink(ctx, pm); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.ActionUpdate, "prescription", strconv.Itoa(prescriptionID))
	s.log.Info("medication unlinked from prescription",
		zap.Int("prescription_id", prescriptionID),
		zap.Int("medication_id", medicationID),
	)
	return nil
}

func (s *PrescriptionService) ListMedications(ctx context.Context, prescriptionID int) ([]*dto.PrescriptionMedicationResponse, error) {
	if err := s.requirePrescription(ctx, prescriptionID); err != nil {
		return nil, err
	}

	pms, err := s.repo.ListMedicationLinks(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	return s.mapper.LinkToResponseList(pms), nil
}

// UpdateMedicationDetails partial-merges new dosing details into an active
// link without touching the pair itself.
func (s *PrescriptionService) UpdateMedicationDetails(ctx context.Context, prescriptionID, medicationID int, req *dto.PrescriptionMedicationRequest) (*dto.PrescriptionMedicationResponse, error) {
	if err := s.requirePrescription(ctx, prescriptionID); err != nil {
		return nil, err
	}

	pm, err := s.repo.GetMedicationLink(ctx, prescriptionID, medicationID)
	if err != nil {
		return nil, err
	}

	s.mapper.UpdateLink(pm, req)
	if err := s.repo.SaveMedicationLink(ctx, pm); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.ActionUpdate, "prescription", strconv.Itoa(prescriptionID))
	return s.mapper.LinkToResponse(pm), nil
}

func (s *PrescriptionService) requirePrescription(ctx context.Context, id int) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return prescription.ErrPrescriptionNotFound
	}
	return nil
}
