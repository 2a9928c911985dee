package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/domain/pagination"
	"gorm.io/gorm"
)

var medicationSortColumns = map[string]string{
	"id":             "id",
	"medicationName": "medication_name",
	"genericName":    "generic_name",
	"medicationType": "medication_type",
	"manufacturer":   "manufacturer",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

type MedicationRepository struct {
	db *gorm.DB
}

func NewMedicationRepository(db *gorm.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

var _ medication.Repository = (*MedicationRepository)(nil)

func (r *MedicationRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&medication.Medication{}).Where("active = true")
}

func (r *MedicationRepository) Create(ctx context.Context, m *medication.Medication) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("inserting medication: %w", err)
	}
	return nil
}

func (r *MedicationRepository) GetByID(ctx context.Context, id int) (*medication.Medication, error) {
	var m medication.Medication
	err := r.active(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medication.ErrMedicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying medication %d: %w", id, err)
	}
	return &m, nil
}

func (r *MedicationRepository) List(ctx context.Context, d pagination.Descriptor) (*medication.PagedMedications, error) {
	return r.paged(ctx, d, func(q *gorm.DB) *gorm.DB { return q })
}

// SearchTerm OR-combines a single free-text term across the descriptive columns.
func (r *MedicationRepository) SearchTerm(ctx context.Context, term string, d pagination.Descriptor) (*medication.PagedMedications, error) {
	return r.paged(ctx, d, func(q *gorm.DB) *gorm.DB {
		if term == "" {
			return q
		}
		p := like(term)
		return q.Where(
			"medication_name ILIKE ? OR generic_name ILIKE ? OR medication_type ILIKE ? OR manufacturer ILIKE ? OR description ILIKE ?",
			p, p, p, p, p,
		)
	})
}

// SearchByCriteria AND-combines the non-empty criteria fields.
func (r *MedicationRepository) SearchByCriteria(ctx context.Context, c medication.SearchCriteria, d pagination.Descriptor) (*medication.PagedMedications, error) {
	return r.paged(ctx, d, func(q *gorm.DB) *gorm.DB {
		if c.Name != "" {
			q = q.Where("medication_name ILIKE ?", like(c.Name))
		}
		if c.GenericName != "" {
			q = q.Where("generic_name ILIKE ?", like(c.GenericName))
		}
		if c.MedicationType != "" {
			q = q.Where("medication_type ILIKE ?", like(c.MedicationType))
		}
		if c.Manufacturer != "" {
			q = q.Where("manufacturer ILIKE ?", like(c.Manufacturer))
		}
		return q
	})
}

func (r *MedicationRepository) paged(ctx context.Context, d pagination.Descriptor, match func(*gorm.DB) *gorm.DB) (*medication.PagedMedications, error) {
	var total int64
	if err := match(r.active(ctx)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting medications: %w", err)
	}

	var rows []*medication.Medication
	if err := match(r.active(ctx)).Scopes(d.Scope(medicationSortColumns)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing medications: %w", err)
	}
	return &medication.PagedMedications{Medications: rows, TotalCount: total}, nil
}

func (r *MedicationRepository) Exists(ctx context.Context, id int) (bool, error) {
	var n int64
	if err := r.active(ctx).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking medication existence: %w", err)
	}
	return n > 0, nil
}

func (r *MedicationRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.active(ctx).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting active medications: %w", err)
	}
	return n, nil
}

func (r *MedicationRepository) Save(ctx context.Context, m *medication.Medication) error {
	if m.ID == 0 {
		return r.Create(ctx, m)
	}
	prev := m.Version
	m.Version = prev + 1
	if err := updateVersioned(ctx, r.db, m, m.ID, prev, medication.ErrMedicationNotFound); err != nil {
		m.Version = prev
		return err
	}
	return nil
}

func (r *MedicationRepository) SoftDelete(ctx context.Context, id int) error {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	m.Active = false
	return r.Save(ctx, m)
}
