package prescription

import (
	"time"

	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/medication"
)

type Prescription struct {
	domain.Model

	// Set at creation and never updated afterwards.
	PatientID int `gorm:"column:patient_id;not null;index"`

	PrescriptionNumber string    `gorm:"column:prescription_number;type:varchar(50);index"`
	PrescriptionDate   time.Time `gorm:"column:prescription_date"`
	DoctorName         string    `gorm:"column:doctor_name;type:varchar(150)"`
	DoctorLicense      string    `gorm:"column:doctor_license;type:varchar(50)"`
	Notes              string    `gorm:"column:notes;type:text"`
	ValidUntil         time.Time `gorm:"column:valid_until"`
	IsFilled           bool      `gorm:"column:is_filled;not null;default:false"`

	Medications []*PrescriptionMedication `gorm:"foreignKey:PrescriptionID"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

// PrescriptionMedication links one prescription to one medication and carries
// the dosing data for the pair. The (prescription, medication) pair is unique
// while both sides of the link are active.
type PrescriptionMedication struct {
	domain.Model

	PrescriptionID int `gorm:"column:prescription_id;not null;index"`
	MedicationID   int `gorm:"column:medication_id;not null;index"`

	Dosage       string `gorm:"column:dosage;type:varchar(100)"`
	Frequency    string `gorm:"column:frequency;type:varchar(100)"`
	Duration     string `gorm:"column:duration;type:varchar(100)"`
	Instructions string `gorm:"column:instructions;type:text"`
	Quantity     int    `gorm:"column:quantity"`

	Medication *medication.Medication `gorm:"foreignKey:MedicationID"`
}

func (PrescriptionMedication) TableName() string {
	return "clinical.prescription_medications"
}

type PagedPrescriptions struct {
	Prescriptions []*Prescription
	TotalCount    int64
}
