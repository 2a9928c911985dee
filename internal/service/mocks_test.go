package service

import (
	"context"

	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/domain/prescription"
	"github.com/clinica-suite/patients-service/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Function-field mocks: a test wires only the methods it expects to be hit;
// an unexpected call panics on the nil function.

type patientRepoMock struct {
	CreateFn        func(ctx context.Context, p *patient.Patient) error
	GetByIDFn       func(ctx context.Context, id int) (*patient.Patient, error)
	ListFn          func(ctx context.Context, d pagination.Descriptor) (*patient.PagedPatients, error)
	SearchByNameFn  func(ctx context.Context, name string, d pagination.Descriptor) (*patient.PagedPatients, error)
	ExistsFn        func(ctx context.Context, id int) (bool, error)
	ExistsByEmailFn func(ctx context.Context, email string, excludeID int) (bool, error)
	CountActiveFn   func(ctx context.Context) (int64, error)
	SaveFn          func(ctx context.Context, p *patient.Patient) error
	SoftDeleteFn    func(ctx context.Context, id int) error
}

func (m *patientRepoMock) Create(ctx context.Context, p *patient.Patient) error {
	return m.CreateFn(ctx, p)
}

func (m *patientRepoMock) GetByID(ctx context.Context, id int) (*patient.Patient, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *patientRepoMock) List(ctx context.Context, d pagination.Descriptor) (*patient.PagedPatients, error) {
	return m.ListFn(ctx, d)
}

func (m *patientRepoMock) SearchByName(ctx context.Context, name string, d pagination.Descriptor) (*patient.PagedPatients, error) {
	return m.SearchByNameFn(ctx, name, d)
}

func (m *patientRepoMock) Exists(ctx context.Context, id int) (bool, error) {
	return m.ExistsFn(ctx, id)
}

func (m *patientRepoMock) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	return m.ExistsByEmailFn(ctx, email, excludeID)
}

func (m *patientRepoMock) CountActive(ctx context.Context) (int64, error) {
	return m.CountActiveFn(ctx)
}

func (m *patientRepoMock) Save(ctx context.Context, p *patient.Patient) error {
	return m.SaveFn(ctx, p)
}

func (m *patientRepoMock) SoftDelete(ctx context.Context, id int) error {
	return m.SoftDeleteFn(ctx, id)
}

type medicationRepoMock struct {
	CreateFn           func(ctx context.Context, m *medication.Medication) error
	GetByIDFn          func(ctx context.Context, id int) (*medication.Medication, error)
	ListFn             func(ctx context.Context, d pagination.Descriptor) (*medication.PagedMedications, error)
	SearchTermFn       func(ctx context.Context, term string, d pagination.Descriptor) (*medication.PagedMedications, error)
	SearchByCriteriaFn func(ctx context.Context, c medication.SearchCriteria, d pagination.Descriptor) (*medication.PagedMedications, error)
	ExistsFn           func(ctx context.Context, id int) (bool, error)
	CountActiveFn      func(ctx context.Context) (int64, error)
	SaveFn             func(ctx context.Context, m *medication.Medication) error
	SoftDeleteFn       func(ctx context.Context, id int) error
}

func (r *medicationRepoMock) Create(ctx context.Context, m *medication.Medication) error {
	return r.CreateFn(ctx, m)
}

func (r *medicationRepoMock) GetByID(ctx context.Context, id int) (*medication.Medication, error) {
	return r.GetByIDFn(ctx, id)
}

func (r *medicationRepoMock) List(ctx context.Context, d pagination.Descriptor) (*medication.PagedMedications, error) {
	return r.ListFn(ctx, d)
}

func (r *medicationRepoMock) SearchTerm(ctx context.Context, term string, d pagination.Descriptor) (*medication.PagedMedications, error) {
	return r.SearchTermFn(ctx, term, d)
}

func (r *medicationRepoMock) SearchByCriteria(ctx context.Context, c medication.SearchCriteria, d pagination.Descriptor) (*medication.PagedMedications, error) {
	return r.SearchByCriteriaFn(ctx, c, d)
}

func (r *medicationRepoMock) Exists(ctx context.Context, id int) (bool, error) {
	return r.ExistsFn(ctx, id)
}

func (r *medicationRepoMock) CountActive(ctx context.Context) (int64, error) {
	return r.CountActiveFn(ctx)
}

func (r *medicationRepoMock) Save(ctx context.Context, m *medication.Medication) error {
	return r.SaveFn(ctx, m)
}

func (r *medicationRepoMock) SoftDelete(ctx context.Context, id int) error {
	return r.SoftDeleteFn(ctx, id)
}

type prescriptionRepoMock struct {
	CreateFn              func(ctx context.Context, p *prescription.Prescription) error
	GetByIDFn             func(ctx context.Context, id int) (*prescription.Prescription, error)
	ListFn                func(ctx context.Context, patientID int, d pagination.Descriptor) (*prescription.PagedPrescriptions, error)
	ExistsFn              func(ctx context.Context, id int) (bool, error)
	SaveFn                func(ctx context.Context, p *prescription.Prescription) error
	SoftDeleteFn          func(ctx context.Context, id int) error
	AddMedicationLinkFn   func(ctx context.Context, pm *prescription.PrescriptionMedication) error
	GetMedicationLinkFn   func(ctx context.Context, prescriptionID, medicationID int) (*prescription.PrescriptionMedication, error)
	ListMedicationLinksFn func(ctx context.Context, prescriptionID int) ([]*prescription.PrescriptionMedication, error)
	SaveMedicationLinkFn  func(ctx context.Context, pm *prescription.PrescriptionMedication) error
}

func (r *prescriptionRepoMock) Create(ctx context.Context, p *prescription.Prescription) error {
	return r.CreateFn(ctx, p)
}

func (r *prescriptionRepoMock) GetByID(ctx context.Context, id int) (*prescription.Prescription, error) {
	return r.GetByIDFn(ctx, id)
}

func (r *prescriptionRepoMock) List(ctx context.Context, patientID int, d pagination.Descriptor) (*prescription.PagedPrescriptions, error) {
	return r.ListFn(ctx, patientID, d)
}

func (r *prescriptionRepoMock) Exists(ctx context.Context, id int) (bool, error) {
	return r.ExistsFn(ctx, id)
}

func (r *prescriptionRepoMock) Save(ctx context.Context, p *prescription.Prescription) error {
	return r.SaveFn(ctx, p)
}

func (r *prescriptionRepoMock) SoftDelete(ctx context.Context, id int) error {
	return r.SoftDeleteFn(ctx, id)
}

func (r *prescriptionRepoMock) AddMedicationLink(ctx context.Context, pm *prescription.PrescriptionMedication) error {
	return r.AddMedicationLinkFn(ctx, pm)
}

func (r *prescriptionRepoMock) GetMedicationLink(ctx context.Context, prescriptionID, medicationID int) (*prescription.PrescriptionMedication, error) {
	return r.GetMedicationLinkFn(ctx, prescriptionID, medicationID)
}

func (r *prescriptionRepoMock) ListMedicationLinks(ctx context.Context, prescriptionID int) ([]*prescription.PrescriptionMedication, error) {
	return r.ListMedicationLinksFn(ctx, prescriptionID)
}

func (r *prescriptionRepoMock) SaveMedicationLink(ctx context.Context, pm *prescription.PrescriptionMedication) error {
	return r.SaveMedicationLinkFn(ctx, pm)
}

type auditRepoMock struct {
	CreateFn func(ctx context.Context, entry *domain.AuditLog) error
}

func (r *auditRepoMock) Create(ctx context.Context, entry *domain.AuditLog) error {
	if r.CreateFn == nil {
		return nil
	}
	return r.CreateFn(ctx, entry)
}

func newTestCollector() *metrics.Collector {
	return metrics.NewCollector("test", prometheus.NewRegistry())
}

func newTestAudit() *AuditService {
	return NewAuditService(&auditRepoMock{}, newTestCollector(), zap.NewNop())
}
