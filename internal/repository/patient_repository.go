package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"gorm.io/gorm"
)

// patientSortColumns whitelists the sort fields accepted on the wire.
var patientSortColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"birthDate": "birth_date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

var _ patient.Repository = (*PatientRepository)(nil)

func (r *PatientRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&patient.Patient{}).Where("active = true")
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return patient.ErrEmailAlreadyUsed
		}
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id int) (*patient.Patient, error) {
	var p patient.Patient
	err := r.active(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying patient %d: %w", id, err)
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context, d pagination.Descriptor) (*patient.PagedPatients, error) {
	var total int64
	if err := r.active(ctx).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}

	var rows []*patient.Patient
	if err := r.active(ctx).Scopes(d.Scope(patientSortColumns)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return &patient.PagedPatients{Patients: rows, TotalCount: total}, nil
}

func (r *PatientRepository) SearchByName(ctx context.Context, name string, d pagination.Descriptor) (*patient.PagedPatients, error) {
	match := func(q *gorm.DB) *gorm.DB {
		if name == "" {
			return q
		}
		return q.Where("first_name ILIKE ? OR last_name ILIKE ?", like(name), like(name))
	}

	var total int64
	if err := match(r.active(ctx)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting patient search: %w", err)
	}

	var rows []*patient.Patient
	if err := match(r.active(ctx)).Scopes(d.Scope(patientSortColumns)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("searching patients: %w", err)
	}
	return &patient.PagedPatients{Patients: rows, TotalCount: total}, nil
}

func (r *PatientRepository) Exists(ctx context.Context, id int) (bool, error) {
	var n int64
	if err := r.active(ctx).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking patient existence: %w", err)
	}
	return n > 0, nil
}

func (r *PatientRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	if email == "" {
		return false, nil
	}
	q := r.active(ctx).Where("email = ?", email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking email uniqueness: %w", err)
	}
	return n > 0, nil
}

func (r *PatientRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.active(ctx).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting active patients: %w", err)
	}
	return n, nil
}

func (r *PatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	if p.ID == 0 {
		return r.Create(ctx, p)
	}
	prev := p.Version
	p.Version = prev + 1
	if err := updateVersioned(ctx, r.db, p, p.ID, prev, patient.ErrPatientNotFound); err != nil {
		p.Version = prev
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return patient.ErrEmailAlreadyUsed
		}
		return err
	}
	return nil
}

func (r *PatientRepository) SoftDelete(ctx context.Context, id int) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	return r.Save(ctx, p)
}
