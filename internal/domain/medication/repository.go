package medication

import (
	"context"

	"github.com/clinica-suite/patients-service/internal/domain/pagination"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error

	// GetByID retrieves an active medication. Returns ErrMedicationNotFound otherwise.
	GetByID(ctx context.Context, id int) (*Medication, error)

	List(ctx context.Context, d pagination.Descriptor) (*PagedMedications, error)

	// SearchTerm matches the term OR-wise across name, generic name, type,
	// manufacturer, and description.
	SearchTerm(ctx context.Context, term string, d pagination.Descriptor) (*PagedMedications, error)

	// SearchByCriteria AND-combines the non-empty criteria fields.
	SearchByCriteria(ctx context.Context, c SearchCriteria, d pagination.Descriptor) (*PagedMedications, error)

	Exists(ctx context.Context, id int) (bool, error)

	CountActive(ctx context.Context) (int64, error)

	Save(ctx context.Context, m *Medication) error

	SoftDelete(ctx context.Context, id int) error
}
