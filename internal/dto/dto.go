// Package dto holds the wire-shaped request and response records. Request
// fields are pointers so partial updates can distinguish "absent" from "zero".
package dto

import (
	"time"

	"github.com/clinica-suite/patients-service/internal/domain/pagination"
)

// Page is the envelope returned by every list endpoint.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

func NewPage[T any](content []T, total int64, d pagination.Descriptor) *Page[T] {
	if content == nil {
		content = []T{}
	}
	return &Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    d.TotalPages(total),
		Page:          d.Page(),
		Size:          d.Limit,
	}
}

type PatientRequest struct {
	FirstName         *string    `json:"firstName"`
	LastName          *string    `json:"lastName"`
	DocumentType      *string    `json:"documentType"`
	DocumentNumber    *string    `json:"documentNumber"`
	Email             *string    `json:"email"`
	Gender            *string    `json:"gender"`
	BloodType         *string    `json:"bloodType"`
	BirthDate         *time.Time `json:"birthDate"`
	Phone             *string    `json:"phone"`
	AllergyNotes      *string    `json:"allergyNotes"`
	ChronicConditions *string    `json:"chronicConditions"`
}

type PatientResponse struct {
	ID                int        `json:"id"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	FullName          string     `json:"fullName"`
	Age               *int       `json:"age,omitempty"`
	DocumentType      string     `json:"documentType,omitempty"`
	DocumentNumber    string     `json:"documentNumber,omitempty"`
	Email             string     `json:"email,omitempty"`
	Gender            string     `json:"gender,omitempty"`
	BloodType         string     `json:"bloodType,omitempty"`
	BirthDate         *time.Time `json:"birthDate,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	AllergyNotes      string     `json:"allergyNotes,omitempty"`
	ChronicConditions string     `json:"chronicConditions,omitempty"`
}

type PatientSearchRequest struct {
	pagination.Request
	Name string `json:"name"`
}

type MedicationRequest struct {
	MedicationName    *string `json:"medicationName"`
	GenericName       *string `json:"genericName"`
	MedicationType    *string `json:"medicationType"`
	Manufacturer      *string `json:"manufacturer"`
	Description       *string `json:"description"`
	SideEffects       *string `json:"sideEffects"`
	Contraindications *string `json:"contraindications"`
}

type MedicationResponse struct {
	ID                int       `json:"id"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	MedicationName    string    `json:"medicationName"`
	GenericName       string    `json:"genericName,omitempty"`
	MedicationType    string    `json:"medicationType,omitempty"`
	Manufacturer      string    `json:"manufacturer,omitempty"`
	Description       string    `json:"description,omitempty"`
	SideEffects       string    `json:"sideEffects,omitempty"`
	Contraindications string    `json:"contraindications,omitempty"`
}

type MedicationSearchRequest struct {
	pagination.Request
	SearchTerm     string `json:"searchTerm"`
	Name           string `json:"name"`
	GenericName    string `json:"genericName"`
	MedicationType string `json:"medicationType"`
	Manufacturer   string `json:"manufacturer"`
}

type PrescriptionRequest struct {
	PatientID          *int       `json:"patientId"`
	PrescriptionNumber *string    `json:"prescriptionNumber"`
	PrescriptionDate   *time.Time `json:"prescriptionDate"`
	DoctorName         *string    `json:"doctorName"`
	DoctorLicense      *string    `json:"doctorLicense"`
	Notes              *string    `json:"notes"`
	ValidUntil         *time.Time `json:"validUntil"`
	IsFilled           *bool      `json:"isFilled"`
}

type PrescriptionResponse struct {
	ID                 int        `json:"id"`
	Active             bool       `json:"active"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	PatientID          int        `json:"patientId"`
	PrescriptionNumber string     `json:"prescriptionNumber,omitempty"`
	PrescriptionDate   *time.Time `json:"prescriptionDate,omitempty"`
	DoctorName         string     `json:"doctorName,omitempty"`
	DoctorLicense      string     `json:"doctorLicense,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	ValidUntil         *time.Time `json:"validUntil,omitempty"`
	IsFilled           bool       `json:"isFilled"`
}

type PrescriptionSearchRequest struct {
	pagination.Request
	PatientID *int `json:"patientId"`
}

type PrescriptionMedicationRequest struct {
	Dosage       *string `json:"dosage"`
	Frequency    *string `json:"frequency"`
	Duration     *string `json:"duration"`
	Instructions *string `json:"instructions"`
	Quantity     *int    `json:"quantity"`
}

// MedicationSummary is the minimal medication info embedded in a join-row
// response, bounding response size.
type MedicationSummary struct {
	ID             int    `json:"id"`
	MedicationName string `json:"medicationName"`
	GenericName    string `json:"genericName,omitempty"`
}

type PrescriptionMedicationResponse struct {
	ID           int                `json:"id"`
	Dosage       string             `json:"dosage,omitempty"`
	Frequency    string             `json:"frequency,omitempty"`
	Duration     string             `json:"duration,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
	Quantity     int                `json:"quantity,omitempty"`
	Medication   *MedicationSummary `json:"medication,omitempty"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}
