package medication

import (
	"github.com/clinica-suite/patients-service/internal/domain"
)

type Medication struct {
	domain.Model

	MedicationName string `gorm:"column:medication_name;type:varchar(255);not null;index"`
	GenericName    string `gorm:"column:generic_name;type:varchar(255);index"`
	MedicationType string `gorm:"column:medication_type;type:varchar(100)"`
	Manufacturer   string `gorm:"column:manufacturer;type:varchar(255)"`

	Description       string `gorm:"column:description;type:text"`
	SideEffects       string `gorm:"column:side_effects;type:text"`
	Contraindications string `gorm:"column:contraindications;type:text"`
}

func (Medication) TableName() string {
	return "clinical.medications"
}

// SearchCriteria are AND-combined; empty fields are ignored. Each match is a
// case-insensitive substring match.
type SearchCriteria struct {
	Name           string
	GenericName    string
	MedicationType string
	Manufacturer   string
}

func (c SearchCriteria) IsZero() bool {
	return c.Name == "" && c.GenericName == "" && c.MedicationType == "" && c.Manufacturer == ""
}

type PagedMedications struct {
	Medications []*Medication
	TotalCount  int64
}
