package prescription

import (
	"context"

	"github.com/clinica-suite/patients-service/internal/domain/pagination"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error

	// GetByID retrieves an active prescription. Returns ErrPrescriptionNotFound otherwise.
	GetByID(ctx context.Context, id int) (*Prescription, error)

	// List returns active prescriptions; patientID > 0 narrows to one patient.
	List(ctx context.Context, patientID int, d pagination.Descriptor) (*PagedPrescriptions, error)

	Exists(ctx context.Context, id int) (bool, error)

	Save(ctx context.Context, p *Prescription) error

	SoftDelete(ctx context.Context, id int) error

	// AddMedicationLink inserts a join row. Returns ErrMedicationAlreadyLinked
	// when an active row for the pair already exists.
	AddMedicationLink(ctx context.Context, pm *PrescriptionMedication) error

	// GetMedicationLink finds the active join row for the pair, with the
	// medication back-reference loaded. Returns ErrMedicationNotLinked if absent.
	GetMedicationLink(ctx context.Context, prescriptionID, medicationID int) (*PrescriptionMedication, error)

	// ListMedicationLinks returns all active join rows of a prescription with
	// medications loaded.
	ListMedicationLinks(ctx context.Context, prescriptionID int) ([]*PrescriptionMedication, error)

	// SaveMedicationLink updates a join row with an optimistic version check.
	SaveMedicationLink(ctx context.Context, pm *PrescriptionMedication) error
}
