package patient

import (
	"strings"
	"time"

	"github.com/clinica-suite/patients-service/internal/domain"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type BloodType string

const (
	BloodTypeAPos  BloodType = "A_POSITIVE"
	BloodTypeANeg  BloodType = "A_NEGATIVE"
	BloodTypeBPos  BloodType = "B_POSITIVE"
	BloodTypeBNeg  BloodType = "B_NEGATIVE"
	BloodTypeABPos BloodType = "AB_POSITIVE"
	BloodTypeABNeg BloodType = "AB_NEGATIVE"
	BloodTypeOPos  BloodType = "O_POSITIVE"
	BloodTypeONeg  BloodType = "O_NEGATIVE"
)

func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg:
		return true
	}
	return false
}

type Patient struct {
	domain.Model

	FirstName      string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName       string `gorm:"column:last_name;type:varchar(100);not null"`
	DocumentType   string `gorm:"column:document_type;type:varchar(20)"`
	DocumentNumber string `gorm:"column:document_number;type:varchar(50);index"`

	// Unique among active patients via a partial index, see pkg/database.
	Email string `gorm:"column:email;type:varchar(255);index"`

	Gender    Gender    `gorm:"column:gender;type:varchar(20)"`
	BloodType BloodType `gorm:"column:blood_type;type:varchar(20)"`

	BirthDate time.Time `gorm:"column:birth_date"`
	Phone     string    `gorm:"column:phone;type:varchar(30)"`

	AllergyNotes      string `gorm:"column:allergy_notes;type:text"`
	ChronicConditions string `gorm:"column:chronic_conditions;type:text"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age returns whole years as of today, or -1 when the birth date is unset.
func (p *Patient) Age() int {
	if p.BirthDate.IsZero() {
		return -1
	}
	now := time.Now()
	years := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		years--
	}
	return years
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
}
