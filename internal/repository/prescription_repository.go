package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/prescription"
	"gorm.io/gorm"
)

var prescriptionSortColumns = map[string]string{
	"id":                 "id",
	"prescriptionNumber": "prescription_number",
	"prescriptionDate":   "prescription_date",
	"doctorName":         "doctor_name",
	"validUntil":         "valid_until",
	"createdAt":          "created_at",
	"updatedAt":          "updated_at",
}

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

var _ prescription.Repository = (*PrescriptionRepository)(nil)

func (r *PrescriptionRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&prescription.Prescription{}).Where("active = true")
}

func (r *PrescriptionRepository) Create(ctx context.Context, p *prescription.Prescription) error {
	if err := r.db.WithContext(ctx).Omit("Medications").Create(p).Error; err != nil {
		return fmt.Errorf("inserting prescription: %w", err)
	}
	return nil
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id int) (*prescription.Prescription, error) {
	var p prescription.Prescription
	err := r.active(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prescription.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying prescription %d: %w", id, err)
	}
	return &p, nil
}

func (r *PrescriptionRepository) List(ctx context.Context, patientID int, d pagination.Descriptor) (*prescription.PagedPrescriptions, error) {
	match := func(q *gorm.DB) *gorm.DB {
		if patientID > 0 {
			q = q.Where("patient_id = ?", patientID)
		}
		return q
	}

	var total int64
	if err := match(r.active(ctx)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting prescriptions: %w", err)
	}

	var rows []*prescription.Prescription
	if err := match(r.active(ctx)).Scopes(d.Scope(prescriptionSortColumns)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing prescriptions: %w", err)
	}
	return &prescription.PagedPrescriptions{Prescriptions: rows, TotalCount: total}, nil
}

func (r *PrescriptionRepository) Exists(ctx context.Context, id int) (bool, error) {
	var n int64
	if err := r.active(ctx).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking prescription existence: %w", err)
	}
	return n > 0, nil
}

func (r *PrescriptionRepository) Save(ctx context.Context, p *prescription.Prescription) error {
	if p.ID == 0 {
		return r.Create(ctx, p)
	}
	prev := p.Version
	p.Version = prev + 1
	if err := updateVersioned(ctx, r.db, p, p.ID, prev, prescription.ErrPrescriptionNotFound); err != nil {
		p.Version = prev
		return err
	}
	return nil
}

func (r *PrescriptionRepository) SoftDelete(ctx context.Context, id int) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	return r.Save(ctx, p)
}

func (r *PrescriptionRepository) AddMedicationLink(ctx context.Context, pm *prescription.PrescriptionMedication) error {
	if err := r.db.WithContext(ctx).Omit("Medication").Create(pm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return prescription.ErrMedicationAlreadyLinked
		}
		return fmt.Errorf("inserting prescription medication link: %w", err)
	}
	return nil
}

func (r *PrescriptionRepository) GetMedicationLink(ctx context.Context, prescriptionID, medicationID int) (*prescription.PrescriptionMedication, error) {
	var pm prescription.PrescriptionMedication
	err := r.db.WithContext(ctx).
		Where("prescription_id = ? AND medication_id = ? AND active = true", prescriptionID, medicationID).
		Preload("Medication").
		First(&pm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prescription.ErrMedicationNotLinked
	}
	if err != nil {
		return nil, fmt.Errorf("querying prescription medication link: %w", err)
	}
	return &pm, nil
}

func (r *PrescriptionRepository) ListMedicationLinks(ctx context.Context, prescriptionID int) ([]*prescription.PrescriptionMedication, error) {
	var pms []*prescription.PrescriptionMedication
	err := r.db.WithContext(ctx).
		Where("prescription_id = ? AND active = true", prescriptionID).
		Preload("Medication").
		Order("id ASC").
		Find(&pms).Error
	if err != nil {
		return nil, fmt.Errorf("listing prescription medication links: %w", err)
	}
	return pms, nil
}

func (r *PrescriptionRepository) SaveMedicationLink(ctx context.Context, pm *prescription.PrescriptionMedication) error {
	// Detach the preloaded association so the update touches the join row only.
	med := pm.Medication
	pm.Medication = nil
	defer func() { pm.Medication = med }()

	prev := pm.Version
	pm.Version = prev + 1
	if err := updateVersioned(ctx, r.db, pm, pm.ID, prev, prescription.ErrMedicationNotLinked); err != nil {
		pm.Version = prev
		return err
	}
	return nil
}
